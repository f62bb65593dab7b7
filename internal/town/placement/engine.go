package placement

import (
	"cmp"
	"math"
	"slices"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/shared/utils"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/terrain"
)

// Terrain 是放置规则需要的地形查询。
type Terrain interface {
	TileType(x, z int) (terrain.TileType, bool)
	TileHeight(x, z int) (float64, bool)
	IsBuildableTile(x, z int) bool
}

// 住宅落成当天入住比例
const moveInRatio = 0.7

// Engine 持有稀疏建筑网格，是"某格是否被占用"的唯一来源。
// 非并发安全：由上层串行调用。
type Engine struct {
	registry *building.Registry
	terrain  Terrain
	ledger   *entity.Ledger
	events   entity.Publisher
	ids      utils.IDGenerator

	grid map[entity.Coord]*entity.PlacedBuilding
}

type Option func(*Engine)

func WithPublisher(p entity.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.events = p
		}
	}
}

func WithIDGenerator(g utils.IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

func New(registry *building.Registry, t Terrain, ledger *entity.Ledger, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		terrain:  t,
		ledger:   ledger,
		events:   entity.NopPublisher{},
		ids:      &utils.Sequence{},
		grid:     make(map[entity.Coord]*entity.PlacedBuilding),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *building.Registry {
	return e.registry
}

func (e *Engine) Place(x, z int, category entity.Category, typ string, free bool) bool {
	_, r := e.PlaceBuilding(x, z, category, typ, free)
	return r.OK()
}

// PlaceBuilding 校验通过且资金足够才落地；失败时不改动任何状态。
func (e *Engine) PlaceBuilding(x, z int, category entity.Category, typ string, free bool) (entity.PlacedBuilding, Reason) {
	if r := e.Check(x, z, category, typ); !r.OK() {
		return entity.PlacedBuilding{}, r
	}
	def, _ := e.registry.Lookup(category, typ)

	charge := !free && !e.ledger.Sandbox()
	if charge && !e.ledger.CanAfford(def.Cost) {
		return entity.PlacedBuilding{}, ReasonInsufficientFunds
	}

	pos := entity.C(x, z)
	b := entity.NewPlacedBuilding(entity.BuildingID(e.ids.NextID()), def, pos, e.ledger.DayCount())
	if charge {
		e.ledger.AddMoney(-float64(def.Cost))
	}
	e.grid[pos] = b
	e.ledger.IncCount(b.Category)

	e.events.Publish(entity.BuildingPlaced{Building: *b, Free: free})

	if b.Category == building.Residential && b.Capacity > 0 {
		old := e.ledger.Population()
		e.ledger.SetPopulation(old + int(math.Floor(float64(b.Capacity)*moveInRatio)))
		if n := e.ledger.Population(); n != old {
			e.events.Publish(entity.PopulationChanged{Old: old, New: n, Reason: "move_in"})
		}
	}
	return *b, ReasonOK
}

func (e *Engine) Move(fromX, fromZ, toX, toZ int) bool {
	_, r := e.MoveBuilding(fromX, fromZ, toX, toZ)
	return r.OK()
}

// MoveBuilding 只搬动网格位置，身份与经济属性不变。目的地规则由调用方先行校验。
func (e *Engine) MoveBuilding(fromX, fromZ, toX, toZ int) (entity.PlacedBuilding, Reason) {
	from, to := entity.C(fromX, fromZ), entity.C(toX, toZ)
	b, ok := e.grid[from]
	if !ok {
		return entity.PlacedBuilding{}, ReasonNotFound
	}
	if _, ok := e.grid[to]; ok {
		return entity.PlacedBuilding{}, ReasonDestinationOccupied
	}
	if _, ok := e.terrain.TileHeight(toX, toZ); !ok {
		return entity.PlacedBuilding{}, ReasonOutOfBounds
	}

	delete(e.grid, from)
	b.Pos = to
	e.grid[to] = b

	e.events.Publish(entity.BuildingMoved{Building: *b, From: from})
	return *b, ReasonOK
}

// Remove 拆除不退还建造时增加的人口。
func (e *Engine) Remove(x, z int) bool {
	_, r := e.RemoveBuilding(x, z)
	return r.OK()
}

func (e *Engine) RemoveBuilding(x, z int) (entity.PlacedBuilding, Reason) {
	pos := entity.C(x, z)
	b, ok := e.grid[pos]
	if !ok {
		return entity.PlacedBuilding{}, ReasonNotFound
	}
	delete(e.grid, pos)
	e.ledger.DecCount(b.Category)

	e.events.Publish(entity.BuildingRemoved{Building: *b})
	return *b, ReasonOK
}

func (e *Engine) BuildingAt(x, z int) (entity.PlacedBuilding, bool) {
	b, ok := e.grid[entity.C(x, z)]
	if !ok {
		return entity.PlacedBuilding{}, false
	}
	return *b, true
}

func (e *Engine) Occupied(x, z int) bool {
	_, ok := e.grid[entity.C(x, z)]
	return ok
}

// BuildingsByCategory 按 id 升序返回拷贝。
func (e *Engine) BuildingsByCategory(category entity.Category) []entity.PlacedBuilding {
	out := make([]entity.PlacedBuilding, 0)
	for _, b := range e.grid {
		if b.Category == category {
			out = append(out, *b)
		}
	}
	sortByID(out)
	return out
}

func (e *Engine) All() []entity.PlacedBuilding {
	out := make([]entity.PlacedBuilding, 0, len(e.grid))
	for _, b := range e.grid {
		out = append(out, *b)
	}
	sortByID(out)
	return out
}

func (e *Engine) Len() int {
	return len(e.grid)
}

// CountByCategory 直接按网格重新统计，用来核对账本计数。
func (e *Engine) CountByCategory() map[entity.Category]int {
	out := make(map[entity.Category]int)
	for _, b := range e.grid {
		out[b.Category]++
	}
	return out
}

func (e *Engine) Stats() entity.BuildingStats {
	var s entity.BuildingStats
	for _, b := range e.grid {
		s.Total++
		s.Jobs += b.Jobs
		s.Capacity += b.Capacity
		s.Pollution += b.Pollution
		switch b.Category {
		case building.Civic, building.Recreational:
			s.CivicHappiness += b.Happiness
		case building.Residential:
			s.ResidentialCost += b.Cost
		case building.Commercial:
			s.CommercialIncome += b.Income
		}
	}
	return s
}

func sortByID(bs []entity.PlacedBuilding) {
	slices.SortFunc(bs, func(a, b entity.PlacedBuilding) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
