package actors

import (
	"context"
	"math"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/placement"
)

const reportsQueryTimeout = 2 * time.Second

type TownHandler struct{}

var TH = &TownHandler{}

func (h *TownHandler) HandleState(ctx actor.Context, p *TownActor, _ *messages.HTState) {
	ctx.Respond(ok(p.town.State()))
}

func (h *TownHandler) HandlePlace(ctx actor.Context, p *TownActor, req *messages.HTPlace) {
	b, reason := p.town.Place(req.X, req.Z, entity.Category(req.Category), req.Type)
	if !reason.OK() {
		ctx.Respond(reject(reason))
		return
	}
	ctx.Respond(ok(b))
}

func (h *TownHandler) HandleCanPlace(ctx actor.Context, p *TownActor, req *messages.HTCanPlace) {
	reason := p.town.Check(req.X, req.Z, entity.Category(req.Category), req.Type)
	ctx.Respond(ok(messages.PlaceCheck{OK: reason.OK(), Reason: string(reason)}))
}

func (h *TownHandler) HandleMove(ctx actor.Context, p *TownActor, req *messages.HTMove) {
	b, reason := p.town.Move(req.FromX, req.FromZ, req.ToX, req.ToZ)
	if !reason.OK() {
		ctx.Respond(reject(reason))
		return
	}
	ctx.Respond(ok(b))
}

func (h *TownHandler) HandleRemove(ctx actor.Context, p *TownActor, req *messages.HTRemove) {
	b, reason := p.town.Remove(req.X, req.Z)
	if !reason.OK() {
		ctx.Respond(reject(reason))
		return
	}
	ctx.Respond(ok(b))
}

func (h *TownHandler) HandleBuildings(ctx actor.Context, p *TownActor, req *messages.HTBuildings) {
	ctx.Respond(ok(p.town.BuildingsByCategory(entity.Category(req.Category))))
}

func (h *TownHandler) HandleBuildingAt(ctx actor.Context, p *TownActor, req *messages.HTBuildingAt) {
	b, found := p.town.BuildingAt(req.X, req.Z)
	if !found {
		ctx.Respond(fail(transport.NotFound, "该位置没有建筑"))
		return
	}
	ctx.Respond(ok(b))
}

func (h *TownHandler) HandleTile(ctx actor.Context, p *TownActor, req *messages.HTTile) {
	ctx.Respond(ok(p.town.Tile(req.X, req.Z)))
}

func (h *TownHandler) HandleSetTax(ctx actor.Context, p *TownActor, req *messages.HTSetTax) {
	ctx.Respond(ok(p.town.SetTaxRate(req.Rate)))
}

func (h *TownHandler) HandleSetSpeed(ctx actor.Context, p *TownActor, req *messages.HTSetSpeed) {
	if math.IsNaN(req.Speed) || math.IsInf(req.Speed, 0) {
		ctx.Respond(fail(transport.InvalidParam, "速度必须是有限数"))
		return
	}
	ctx.Respond(ok(p.town.SetGameSpeed(req.Speed)))
}

func (h *TownHandler) HandleSetSandbox(ctx actor.Context, p *TownActor, req *messages.HTSetSandbox) {
	p.town.SetSandbox(req.On)
	ctx.Respond(ok(req.On))
}

func (h *TownHandler) HandleTrade(ctx actor.Context, p *TownActor, req *messages.HTTrade) {
	if math.IsNaN(req.Value) || math.IsInf(req.Value, 0) {
		ctx.Respond(fail(transport.InvalidParam, "交易额必须是有限数"))
		return
	}
	ctx.Respond(ok(p.town.ApplyTrade(req.Value)))
}

func (h *TownHandler) HandleTriggerEvent(ctx actor.Context, p *TownActor, req *messages.HTTriggerEvent) {
	ev, started := p.town.TriggerEvent(req.Kind)
	if !started {
		ctx.Respond(fail(transport.InvalidParam, "未知的事件类型: "+req.Kind))
		return
	}
	ctx.Respond(ok(ev))
}

func (h *TownHandler) HandleRegenerate(ctx actor.Context, p *TownActor, req *messages.HTRegenerate) {
	// 旧城镇的账本和日报先落一次
	if err := p.dc.Flush(p.town.Ledger()); err != nil {
		p.log.Error("flush before regenerate failed", zap.Error(err))
	}
	rep := p.town.Regenerate(req.Seed)
	p.lastTick = p.now()
	ctx.Respond(ok(rep))
}

// HandleReports 查库放到 goroutine 里，查完直接回给请求方，actor 继续处理时钟与变更。
func (h *TownHandler) HandleReports(ctx actor.Context, p *TownActor, req *messages.HTReports) {
	sender := ctx.Sender()
	if sender == nil {
		return
	}
	root := ctx.ActorSystem().Root
	store, townID, log := p.dc, p.townID, p.log
	go func() {
		qctx, cancel := context.WithTimeout(context.Background(), reportsQueryTimeout)
		defer cancel()
		reports, err := store.Reports(qctx, townID, req.FromDay, req.Limit)
		if err != nil {
			log.Error("query reports failed", zap.Error(err))
			root.Send(sender, fail(transport.CodeFromError(err), "查询日报失败"))
			return
		}
		root.Send(sender, ok(reports))
	}()
}

// HandleSubscribe 的 Data 是取消订阅函数。
func (h *TownHandler) HandleSubscribe(ctx actor.Context, p *TownActor, req *messages.HTSubscribe) {
	if req.Fn == nil {
		ctx.Respond(fail(transport.InvalidParam, "订阅回调为空"))
		return
	}
	ctx.Respond(ok(p.town.Bus().Subscribe(req.Fn)))
}

func ok(data any) *messages.Reply {
	return &messages.Reply{Code: transport.OK, Data: data}
}

func fail(code int, msg string) *messages.Reply {
	return &messages.Reply{Code: code, Message: msg}
}

func reject(reason placement.Reason) *messages.Reply {
	code := transport.Rejected
	if reason == placement.ReasonNotFound {
		code = transport.NotFound
	}
	return &messages.Reply{Code: code, Reason: string(reason), Message: reason.String()}
}
