package tracex

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, traceIDKey{})
}

// WithSpanID 设置当前片段名；已有片段时以 "/" 连接成路径，例如 ws/town.place。
func WithSpanID(ctx context.Context, spanID string) context.Context {
	if parent, ok := SpanIDFrom(ctx); ok && spanID != "" && !strings.HasSuffix(parent, "/"+spanID) && parent != spanID {
		spanID = parent + "/" + spanID
	}
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return stringValue(ctx, spanIDKey{})
}

// Ensure 没有 trace_id 时补一个。
func Ensure(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := TraceIDFrom(ctx); ok {
		return ctx
	}
	return WithTraceID(ctx, NewTraceID())
}

// NewTraceID 返回 32 位 hex 的 trace_id。
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

func stringValue(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}
