package handler

import (
	"context"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/security"
	"TownBuilder/internal/town/entity"
	"TownBuilder/modules/kit/logx"
)

// Asker 是接口层对 actor runtime 的最小依赖。
type Asker interface {
	Ask(ctx context.Context, msg messages.TownMessage) (*messages.Reply, error)
}

// Town 汇总 http/ws handler 共用的依赖。
type Town struct {
	Runtime  Asker
	TownID   entity.TownID
	Signer   *security.Signer
	AdminKey string
	Log      logx.Logger
}

func NewTown(rt Asker, townID entity.TownID, signer *security.Signer, adminKey string, l logx.Logger) *Town {
	if l == nil {
		l = logx.Nop()
	}
	return &Town{Runtime: rt, TownID: townID, Signer: signer, AdminKey: adminKey, Log: l}
}

func (t *Town) Base() messages.TownBaseMessage {
	return messages.TownBaseMessage{TownId: t.TownID}
}
