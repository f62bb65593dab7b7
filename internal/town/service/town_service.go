package service

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/shared/utils"
	"TownBuilder/internal/town/economy"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/generator"
	"TownBuilder/internal/town/placement"
	"TownBuilder/internal/town/terrain"
	"TownBuilder/modules/kit/logx"
)

const (
	MinGameSpeed = 0.0
	MaxGameSpeed = 10.0
)

type Options struct {
	TownID        entity.TownID
	Seed          int64
	HalfSize      int
	StartingMoney float64
	TaxRate       int
	Sandbox       bool
	GameSpeed     float64
	// 一个游戏日对应的游戏时间（已乘速度）
	DayLength time.Duration

	Economy   economy.Config
	Generator generator.Config
	Registry  *building.Registry
	IDs       utils.IDGenerator
	Logger    logx.Logger
}

func (o Options) withDefaults() Options {
	if o.TownID == 0 {
		o.TownID = 1
	}
	if o.DayLength <= 0 {
		o.DayLength = time.Minute
	}
	if o.Economy.Maintenance == nil {
		o.Economy = economy.DefaultConfig()
	}
	if o.Registry == nil {
		o.Registry = building.Default()
	}
	if o.IDs == nil {
		o.IDs = &utils.Sequence{}
	}
	if o.Logger == nil {
		o.Logger = logx.Nop()
	}
	return o
}

// Town 是一个完整的模拟实例：地形 + 账本 + 放置引擎 + 经济模型 + 事件总线。
// 非并发安全，由 town actor 串行驱动。
type Town struct {
	opts Options
	bus  *entity.Bus
	log  logx.Logger

	terrain *terrain.Terrain
	ledger  *entity.Ledger
	engine  *placement.Engine
	economy *economy.Model
	genRep  generator.Report

	gameSpeed float64
	sinceDay  time.Duration
}

func New(opts Options) *Town {
	opts = opts.withDefaults()
	t := &Town{
		opts:      opts,
		bus:       entity.NewBus(),
		log:       opts.Logger.With(zap.Int("town_id", int(opts.TownID))),
		gameSpeed: clampSpeed(opts.GameSpeed),
	}
	t.Regenerate(opts.Seed)
	return t
}

func (t *Town) Bus() *entity.Bus {
	return t.bus
}

// Regenerate 丢弃当前城镇，按 seed 重建地形并运行生成器。订阅者保留。
func (t *Town) Regenerate(seed int64) generator.Report {
	o := t.opts
	o.Seed = seed
	t.opts = o

	t.terrain = terrain.Generate(terrain.Options{Seed: seed, HalfSize: o.HalfSize})
	t.ledger = entity.NewLedger(o.TownID, o.StartingMoney, o.TaxRate)
	t.ledger.SetSandbox(o.Sandbox)
	t.engine = placement.New(o.Registry, t.terrain, t.ledger,
		placement.WithPublisher(t.bus), placement.WithIDGenerator(o.IDs))
	t.economy = economy.New(o.Economy, t.ledger, t.engine, t.bus, rand.New(rand.NewPCG(uint64(seed), 0x5eed)))
	t.sinceDay = 0

	gen := generator.New(o.Generator, t.engine, t.terrain.Bounds(), rand.New(rand.NewPCG(uint64(seed), 0x70a1)))
	t.genRep = gen.Run()

	t.log.Info("town generated",
		zap.Int64("seed", seed),
		zap.Int("roads", t.genRep.Roads),
		zap.Int("buildings", t.genRep.Buildings),
		zap.Int("shortfall", t.genRep.Shortfall),
		zap.Bool("airport", t.genRep.Airport),
		zap.Bool("church", t.genRep.Church),
	)
	if t.genRep.Shortfall > 0 {
		t.log.Warn("town generation hit attempt cap", zap.Int("shortfall", t.genRep.Shortfall))
	}
	t.bus.Publish(entity.TownGenerated{
		Seed:      seed,
		Roads:     t.genRep.Roads,
		Buildings: t.genRep.Buildings,
		Shortfall: t.genRep.Shortfall,
		Airport:   t.genRep.Airport,
		Church:    t.genRep.Church,
	})
	return t.genRep
}

// Advance 推进真实时间 delta，按游戏速度折算；每满一个 DayLength 天数 +1，
// 再由经济模型按水位线结算。大步长（快进）会逐日补算。
func (t *Town) Advance(delta time.Duration) []entity.DayReport {
	if delta > 0 && t.gameSpeed > 0 {
		t.sinceDay += time.Duration(float64(delta) * t.gameSpeed)
		for t.sinceDay >= t.opts.DayLength {
			t.sinceDay -= t.opts.DayLength
			t.ledger.AdvanceDay()
		}
	}
	reports := t.economy.Update()
	for _, r := range reports {
		t.log.Debug("day settled",
			zap.Int("day", r.Day),
			zap.Float64("money", r.Money),
			zap.Int("population", r.Population),
			zap.Float64("happiness", r.Happiness),
			zap.Int("tax", r.TaxRevenue),
		)
	}
	return reports
}

func (t *Town) SetTaxRate(rate int) int {
	return t.ledger.SetTaxRate(rate)
}

func (t *Town) SetGameSpeed(speed float64) float64 {
	t.gameSpeed = clampSpeed(speed)
	return t.gameSpeed
}

func (t *Town) GameSpeed() float64 {
	return t.gameSpeed
}

func (t *Town) SetSandbox(on bool) {
	t.ledger.SetSandbox(on)
}

func (t *Town) ApplyTrade(value float64) entity.TradeCompleted {
	return t.economy.ApplyTrade(value)
}

func (t *Town) TriggerEvent(kind string) (entity.ActiveEvent, bool) {
	return t.economy.TriggerEvent(kind)
}

func (t *Town) Check(x, z int, category entity.Category, typ string) placement.Reason {
	return t.engine.Check(x, z, category, typ)
}

func (t *Town) Place(x, z int, category entity.Category, typ string) (entity.PlacedBuilding, placement.Reason) {
	return t.engine.PlaceBuilding(x, z, category, typ, false)
}

// Move 先按目标位置重新校验，再交给引擎搬动。
func (t *Town) Move(fromX, fromZ, toX, toZ int) (entity.PlacedBuilding, placement.Reason) {
	b, ok := t.engine.BuildingAt(fromX, fromZ)
	if !ok {
		return entity.PlacedBuilding{}, placement.ReasonNotFound
	}
	if r := t.engine.Check(toX, toZ, b.Category, b.Type); !r.OK() {
		return entity.PlacedBuilding{}, r
	}
	return t.engine.MoveBuilding(fromX, fromZ, toX, toZ)
}

func (t *Town) Remove(x, z int) (entity.PlacedBuilding, placement.Reason) {
	return t.engine.RemoveBuilding(x, z)
}

func (t *Town) BuildingAt(x, z int) (entity.PlacedBuilding, bool) {
	return t.engine.BuildingAt(x, z)
}

func (t *Town) BuildingsByCategory(category entity.Category) []entity.PlacedBuilding {
	if category == "" {
		return t.engine.All()
	}
	return t.engine.BuildingsByCategory(category)
}

type Tile struct {
	X         int              `json:"x"`
	Z         int              `json:"z"`
	Type      terrain.TileType `json:"type"`
	Height    float64          `json:"height"`
	Buildable bool             `json:"buildable"`
	InBounds  bool             `json:"inBounds"`
}

func (t *Town) Tile(x, z int) Tile {
	tt, ok := t.terrain.TileType(x, z)
	h, _ := t.terrain.TileHeight(x, z)
	return Tile{X: x, Z: z, Type: tt, Height: h, Buildable: t.terrain.IsBuildableTile(x, z), InBounds: ok}
}

type State struct {
	entity.Summary
	Seed       int64                `json:"seed"`
	GameSpeed  float64              `json:"gameSpeed"`
	Bounds     terrain.Bounds       `json:"bounds"`
	Stats      entity.BuildingStats `json:"stats"`
	History    entity.History       `json:"history"`
	Events     []entity.ActiveEvent `json:"events"`
	Generation generator.Report     `json:"generation"`
}

func (t *Town) State() State {
	return State{
		Summary:    t.ledger.Summary(),
		Seed:       t.opts.Seed,
		GameSpeed:  t.gameSpeed,
		Bounds:     t.terrain.Bounds(),
		Stats:      t.engine.Stats(),
		History:    t.ledger.History(),
		Events:     t.economy.ActiveEvents(),
		Generation: t.genRep,
	}
}

func (t *Town) Summary() entity.Summary {
	return t.ledger.Summary()
}

// Ledger 仅供持久化层读取脏标记。
func (t *Town) Ledger() *entity.Ledger {
	return t.ledger
}

func clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(MinGameSpeed, math.Min(MaxGameSpeed, v))
}
