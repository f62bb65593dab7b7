package messages

import "TownBuilder/internal/town/entity"

// Reply 是 town actor 对所有请求的统一应答。
type Reply struct {
	Code int
	// Reason 放置类拒绝的原因码，其余失败为空
	Reason  string
	Message string
	Data    any
}

func (r *Reply) OK() bool {
	return r != nil && r.Code == 0
}

type TownMessage interface {
	TownID() entity.TownID
}

type TownBaseMessage struct {
	TownId entity.TownID
}

func (m TownBaseMessage) TownID() entity.TownID {
	return m.TownId
}

// HTSubscribe 订阅 town 事件总线；回调在 actor 内同步执行，不能阻塞。
type HTSubscribe struct {
	TownBaseMessage
	Fn func(entity.Event)
}
