package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/town/app/port"
	"TownBuilder/internal/town/dc"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/service"
	"TownBuilder/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const defaultTickEvery = 250 * time.Millisecond

// Config 是每个 town actor 的构造参数，Town.TownID 由 manager 按请求覆盖。
type Config struct {
	Town       service.Options
	Repo       port.ReportRepository
	FlushEvery time.Duration
	// TickEvery 时钟推进间隔，<=0 取默认；测试里可设很大以手动驱动
	TickEvery time.Duration
	Logger    logx.Logger
}

// TownActor 串行化一个城镇的全部网格/账本变更。
type TownActor struct {
	state      State
	townID     entity.TownID
	cfg        Config
	town       *service.Town
	dc         *dc.TownDC
	dispatcher *Dispatcher
	log        logx.Logger

	flushStop chan struct{}
	clockStop chan struct{}
	lastTick  time.Time
	now       func() time.Time
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

type clockTick struct{}

func (clockTick) NotInfluenceReceiveTimeout() {}

func NewTownActor(townID entity.TownID, cfg Config) *TownActor {
	if cfg.Logger == nil {
		cfg.Logger = logx.Nop()
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = defaultTickEvery
	}
	cfg.Town.TownID = townID
	if cfg.Town.Logger == nil {
		cfg.Town.Logger = cfg.Logger
	}
	l := cfg.Logger.Named("town").With(zap.Int("town_id", int(townID)))
	return &TownActor{
		state:      None,
		townID:     townID,
		cfg:        cfg,
		dc:         dc.NewTownDC(cfg.Repo, cfg.FlushEvery, l.Named("dc")),
		dispatcher: NewDispatcher(),
		log:        l,
		now:        time.Now,
	}
}

func (p *TownActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopLoops()
		if p.town != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := p.dc.Close(closeCtx, p.town.Ledger()); err != nil {
				p.log.Error("town dc close failed", zap.Error(err))
			}
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopLoops()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopLoops()
		p.state = Init
		return
	case clockTick:
		if p.state != Online {
			return
		}
		p.advanceClock()
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(p.town.Ledger()); err != nil {
			p.log.Error("town periodic flush failed", zap.Error(err))
		}
		return
	case messages.TownMessage:
		if p.state != Online {
			ctx.Respond(fail(transport.SystemError, "town not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *TownActor) init(ctx actor.Context) {
	p.town = service.New(p.cfg.Town)
	p.state = Online
	p.lastTick = p.now()
	p.startLoops(ctx)
	p.log.Info("town actor online")
}

// advanceClock 把距上次时钟的真实时间交给 Town，产出的日报交给 dc 暂存。
func (p *TownActor) advanceClock() {
	now := p.now()
	delta := now.Sub(p.lastTick)
	p.lastTick = now
	if reports := p.town.Advance(delta); len(reports) > 0 {
		p.dc.Record(reports...)
	}
}

func (p *TownActor) TownID() entity.TownID {
	return p.townID
}

func (p *TownActor) Town() *service.Town {
	return p.town
}

func (p *TownActor) DC() *dc.TownDC {
	return p.dc
}

func (p *TownActor) startLoops(ctx actor.Context) {
	if p.flushStop == nil && p.dc.FlushEvery() > 0 {
		p.flushStop = startTicker(ctx, p.dc.FlushEvery(), flushTick{})
	}
	if p.clockStop == nil {
		p.clockStop = startTicker(ctx, p.cfg.TickEvery, clockTick{})
	}
}

func (p *TownActor) stopLoops() {
	if p.flushStop != nil {
		close(p.flushStop)
		p.flushStop = nil
	}
	if p.clockStop != nil {
		close(p.clockStop)
		p.clockStop = nil
	}
}

// startTicker 周期性地给自己发 msg，关闭返回的 chan 即停止。
func startTicker(ctx actor.Context, every time.Duration, msg any) chan struct{} {
	stop := make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, msg)
			case <-stop:
				return
			}
		}
	}()
	return stop
}
