package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/town/entity"
)

const DefaultTownID = entity.TownID(1)

// ManagerActor 按 town id 懒创建 town actor 并转发请求。
type ManagerActor struct {
	cfg        Config
	townActors map[entity.TownID]*actor.PID
}

func NewManagerActor(cfg Config) *ManagerActor {
	return &ManagerActor{
		cfg:        cfg,
		townActors: make(map[entity.TownID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		for id, pid := range m.townActors {
			if pid.Equal(msg.Who) {
				delete(m.townActors, id)
			}
		}
	case messages.TownMessage:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		id := msg.TownID()
		if id <= 0 {
			id = DefaultTownID
		}
		ctx.Forward(m.getOrSpawn(ctx, id))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, townID entity.TownID) *actor.PID {
	if pid, ok := m.townActors[townID]; ok && pid != nil {
		return pid
	}

	cfg := m.cfg
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewTownActor(townID, cfg)
	})
	pid := ctx.Spawn(props)
	m.townActors[townID] = pid
	return pid
}
