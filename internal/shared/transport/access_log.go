package transport

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"TownBuilder/modules/kit/logx"
	"TownBuilder/modules/kit/tracex"
)

// AccessLog 是一次请求的访问日志上下文，HTTP 请求与 WS 消息共用。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	action      string
	startTime   time.Time

	mu     sync.Mutex
	fields []zap.Field
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留父 context 的取消信号，缺 trace 时补一个。
// span 取 action 的协议前缀：WS 消息为 town/ws，其余为 town/http。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.Ensure(parent)
	ctx = tracex.WithSpanID(ctx, "town")
	if strings.HasPrefix(action, "WS ") {
		ctx = tracex.WithSpanID(ctx, "ws")
	} else {
		ctx = tracex.WithSpanID(ctx, "http")
	}

	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode:   BizCode(SystemError),
		action:    action,
		startTime: time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// AddFields 给访问日志追加业务字段，例如 town_id、坐标。
func AddFields(ctx context.Context, fields ...zap.Field) {
	al := FromContext(ctx)
	if al == nil {
		return
	}
	al.mu.Lock()
	al.fields = append(al.fields, fields...)
	al.mu.Unlock()
}

// WriteAccessLog 在中间件/路由的 defer 里调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	al.mu.Lock()
	fields := append([]zap.Field{zap.Duration("latency", time.Since(al.startTime))}, al.fields...)
	al.mu.Unlock()

	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
