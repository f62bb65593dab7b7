package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/town/actors"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/placement"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Reason  string
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 是传输层访问 town actor 的唯一入口。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(cfg actors.Config, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(cfg)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 等 manager 及其子 actor 停止（dc 落盘）后再关闭 actor 系统。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Ask 发送请求并等待应答；actor 拒绝时返回 *RuntimeError，Reply 仍然可读。
func (r *Runtime) Ask(ctx context.Context, msg messages.TownMessage) (*messages.Reply, error) {
	res, err := r.request(r.managerPID(), msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(*messages.Reply)
	if !ok || reply == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 应答类型错误"}
	}
	if !reply.OK() {
		re := &RuntimeError{Code: reply.Code, Reason: reply.Reason, Message: reply.Message}
		if reply.Reason != "" {
			re.Cause = placement.Reason(reply.Reason).Err()
		}
		return reply, re
	}
	return reply, nil
}

// Subscribe 在指定城镇的事件总线上挂回调，返回取消函数。
func (r *Runtime) Subscribe(ctx context.Context, townID entity.TownID, fn func(entity.Event)) (func(), error) {
	reply, err := r.Ask(ctx, &messages.HTSubscribe{TownBaseMessage: messages.TownBaseMessage{TownId: townID}, Fn: fn})
	if err != nil {
		return nil, err
	}
	cancel, _ := reply.Data.(func())
	if cancel == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "订阅应答缺少取消函数"}
	}
	return cancel, nil
}

// ApplySettings 把热更新后的税率和速度推给城镇。
func (r *Runtime) ApplySettings(ctx context.Context, townID entity.TownID, taxRate int, speed float64) error {
	base := messages.TownBaseMessage{TownId: townID}
	if _, err := r.Ask(ctx, &messages.HTSetTax{TownBaseMessage: base, Rate: taxRate}); err != nil {
		return err
	}
	_, err := r.Ask(ctx, &messages.HTSetSpeed{TownBaseMessage: base, Speed: speed})
	return err
}

func (r *Runtime) managerPID() *protoactor.PID {
	if r == nil {
		return nil
	}
	return r.manager
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.CodeFromError(err)
}

// ReasonFromError 取出放置类拒绝的原因码。
func ReasonFromError(err error) string {
	var re *RuntimeError
	if errors.As(err, &re) && re != nil {
		return re.Reason
	}
	return ""
}
