package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/transport"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, TH.HandleState)
	register(d, TH.HandlePlace)
	register(d, TH.HandleCanPlace)
	register(d, TH.HandleMove)
	register(d, TH.HandleRemove)
	register(d, TH.HandleBuildings)
	register(d, TH.HandleBuildingAt)
	register(d, TH.HandleTile)
	register(d, TH.HandleSetTax)
	register(d, TH.HandleSetSpeed)
	register(d, TH.HandleSetSandbox)
	register(d, TH.HandleTrade)
	register(d, TH.HandleTriggerEvent)
	register(d, TH.HandleRegenerate)
	register(d, TH.HandleReports)
	register(d, TH.HandleSubscribe)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *TownActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}
	if _, dup := d.handlers[reqType]; dup {
		panic("dispatcher duplicate handler for " + reqType.String())
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *TownActor, req messages.TownMessage) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(transport.NotFound, "no handler for "+bodyType.String()))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
