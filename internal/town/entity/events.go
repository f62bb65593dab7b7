package entity

import "sync"

// Event 是模拟核心发出的领域事件，消费者（ws 推送、日志、落库）只读。
type Event interface {
	EventName() string
}

const (
	EventBuildingPlaced    = "building_placed"
	EventBuildingMoved     = "building_moved"
	EventBuildingRemoved   = "building_removed"
	EventPopulationChanged = "population_changed"
	EventTaxCollected      = "tax_collected"
	EventDaySettled        = "day_settled"
	EventTradeCompleted    = "trade_completed"
	EventTownEventStarted  = "town_event_started"
	EventTownEventEnded    = "town_event_ended"
	EventTownGenerated     = "town_generated"
)

type BuildingPlaced struct {
	Building PlacedBuilding `json:"building"`
	Free     bool           `json:"free"`
}

type BuildingMoved struct {
	Building PlacedBuilding `json:"building"`
	From     Coord          `json:"from"`
}

type BuildingRemoved struct {
	Building PlacedBuilding `json:"building"`
}

type PopulationChanged struct {
	Old    int    `json:"old"`
	New    int    `json:"new"`
	Reason string `json:"reason"`
}

type TaxCollected struct {
	Day    int `json:"day"`
	Amount int `json:"amount"`
}

type DaySettled struct {
	Report DayReport `json:"report"`
}

type TradeCompleted struct {
	Category Category `json:"category"`
	Value    float64  `json:"value"`
	Price    float64  `json:"price"`
}

type TownEventStarted struct {
	Event ActiveEvent `json:"event"`
}

type TownEventEnded struct {
	Event ActiveEvent `json:"event"`
}

type TownGenerated struct {
	Seed      int64 `json:"seed"`
	Roads     int   `json:"roads"`
	Buildings int   `json:"buildings"`
	Shortfall int   `json:"shortfall"`
	Airport   bool  `json:"airport"`
	Church    bool  `json:"church"`
}

func (BuildingPlaced) EventName() string    { return EventBuildingPlaced }
func (BuildingMoved) EventName() string     { return EventBuildingMoved }
func (BuildingRemoved) EventName() string   { return EventBuildingRemoved }
func (PopulationChanged) EventName() string { return EventPopulationChanged }
func (TaxCollected) EventName() string      { return EventTaxCollected }
func (DaySettled) EventName() string        { return EventDaySettled }
func (TradeCompleted) EventName() string    { return EventTradeCompleted }
func (TownEventStarted) EventName() string  { return EventTownEventStarted }
func (TownEventEnded) EventName() string    { return EventTownEventEnded }
func (TownGenerated) EventName() string     { return EventTownGenerated }

// Publisher 是模拟核心唯一的对外通知出口。
type Publisher interface {
	Publish(e Event)
}

type PublisherFunc func(e Event)

func (f PublisherFunc) Publish(e Event) {
	f(e)
}

// NopPublisher 丢弃所有事件。
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// Bus 是显式的订阅者列表，按订阅顺序同步回调。
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
	order  []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe 返回取消订阅函数。
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}
