package economy

import (
	"slices"

	"TownBuilder/internal/town/entity"
)

type eventDef struct {
	Kind      string
	Happiness float64
	Days      int
}

// 城镇事件目录，顺序决定随机抽取结果。
var eventCatalog = []eventDef{
	{Kind: "festival", Happiness: 5, Days: 3},
	{Kind: "fair", Happiness: 3, Days: 2},
	{Kind: "storm", Happiness: -4, Days: 2},
	{Kind: "epidemic", Happiness: -8, Days: 4},
}

func EventKinds() []string {
	out := make([]string, 0, len(eventCatalog))
	for _, d := range eventCatalog {
		out = append(out, d.Kind)
	}
	return out
}

func lookupEvent(kind string) (eventDef, bool) {
	i := slices.IndexFunc(eventCatalog, func(d eventDef) bool { return d.Kind == kind })
	if i < 0 {
		return eventDef{}, false
	}
	return eventCatalog[i], true
}

// TriggerEvent 立即开始一个城镇事件，从下一次日结起影响幸福度。
func (m *Model) TriggerEvent(kind string) (entity.ActiveEvent, bool) {
	def, ok := lookupEvent(kind)
	if !ok {
		return entity.ActiveEvent{}, false
	}
	return m.startEvent(def), true
}

func (m *Model) startEvent(def eventDef) entity.ActiveEvent {
	ev := entity.ActiveEvent{
		Kind:          def.Kind,
		HappinessDiff: def.Happiness,
		RemainingDays: def.Days,
		StartedOnDay:  m.ledger.DayCount(),
	}
	m.active = append(m.active, ev)
	m.events.Publish(entity.TownEventStarted{Event: ev})
	return ev
}

func (m *Model) ActiveEvents() []entity.ActiveEvent {
	return slices.Clone(m.active)
}

func (m *Model) eventHappiness() float64 {
	var sum float64
	for _, ev := range m.active {
		sum += ev.HappinessDiff
	}
	return sum
}

// tickEvents 倒计时并移除到期事件，然后按概率掷骰开始新事件。
func (m *Model) tickEvents() {
	kept := m.active[:0]
	for _, ev := range m.active {
		ev.RemainingDays--
		if ev.RemainingDays <= 0 {
			m.events.Publish(entity.TownEventEnded{Event: ev})
			continue
		}
		kept = append(kept, ev)
	}
	m.active = kept

	if m.cfg.EventChance > 0 && m.rng.Float64() < m.cfg.EventChance {
		m.startEvent(eventCatalog[m.rng.IntN(len(eventCatalog))])
	}
}
