package economy

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
)

// Buildings 提供日结需要的建筑聚合值。
type Buildings interface {
	Stats() entity.BuildingStats
}

// Model 是按天结算的经济/人口状态机。
// 日结由 dayCount 越过水位线触发，每一天恰好结算一次。
type Model struct {
	cfg       Config
	ledger    *entity.Ledger
	buildings Buildings
	events    entity.Publisher
	rng       *rand.Rand

	lastProcessedDay int
	active           []entity.ActiveEvent
}

func New(cfg Config, ledger *entity.Ledger, buildings Buildings, events entity.Publisher, rng *rand.Rand) *Model {
	if events == nil {
		events = entity.NopPublisher{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Model{
		cfg:              cfg,
		ledger:           ledger,
		buildings:        buildings,
		events:           events,
		rng:              rng,
		lastProcessedDay: ledger.DayCount(),
	}
}

func (m *Model) LastProcessedDay() int {
	return m.lastProcessedDay
}

// Update 结算水位线之后的每一天。同一天内重复调用不会再次结算。
func (m *Model) Update() []entity.DayReport {
	var reports []entity.DayReport
	for m.lastProcessedDay < m.ledger.DayCount() {
		m.lastProcessedDay++
		reports = append(reports, m.processDay(m.lastProcessedDay))
	}
	return reports
}

func (m *Model) processDay(day int) entity.DayReport {
	stats := m.buildings.Stats()
	l := m.ledger

	tax := m.collectTax(day, stats)
	income, expenses := m.settleFinance()
	capacity := m.updatePopulation()
	m.recomputeHappiness(stats)
	m.updateMarket()
	l.RecordDay()

	var kinds []string
	for _, ev := range m.active {
		kinds = append(kinds, ev.Kind)
	}
	m.tickEvents()

	report := entity.DayReport{
		TownID:       l.TownID(),
		Day:          day,
		Money:        l.Money(),
		Population:   l.Population(),
		Happiness:    l.Happiness(),
		TaxRevenue:   tax,
		Income:       income,
		Expenses:     expenses,
		Capacity:     capacity,
		Jobs:         stats.Jobs,
		Buildings:    l.Counts(),
		MarketPrices: l.MarketPrices(),
		Events:       kinds,
	}
	m.events.Publish(entity.DaySettled{Report: report})
	return report
}

func (m *Model) occupancy() float64 {
	capacity := m.capacity()
	if capacity <= 0 {
		return 0
	}
	return clamp(float64(m.ledger.Population())/float64(capacity), 0, 1)
}

func (m *Model) capacity() int {
	return m.ledger.Count(building.Residential) * m.cfg.CapacityPerResidence
}

// collectTax 人头税 + 建筑税，向下取整后入账。
func (m *Model) collectTax(day int, stats entity.BuildingStats) int {
	l := m.ledger
	rate := float64(l.TaxRate()) / 10
	citizens := float64(l.Population()) * m.cfg.TaxPerCitizen * rate * (l.Happiness() / 100)
	buildings := (float64(stats.ResidentialCost)*m.cfg.ResidentialLevy*m.occupancy() +
		float64(stats.CommercialIncome)*m.cfg.CommercialLevy) * rate

	revenue := int(math.Floor(citizens + buildings))
	if revenue < 0 {
		revenue = 0
	}
	l.AddMoney(float64(revenue))
	m.events.Publish(entity.TaxCollected{Day: day, Amount: revenue})
	return revenue
}

func (m *Model) settleFinance() (income, expenses float64) {
	l := m.ledger
	income = (float64(l.Count(building.Commercial))*m.cfg.CommercialDailyIncome +
		float64(l.Count(building.Industrial))*m.cfg.IndustrialDailyIncome) * (l.Happiness() / 100)
	// 按类别名固定累加顺序，浮点结果与 map 遍历顺序无关
	counts := l.Counts()
	for _, c := range slices.Sorted(maps.Keys(counts)) {
		expenses += float64(counts[c]) * m.cfg.Maintenance[c]
	}
	expenses += float64(l.Population()) * m.cfg.UpkeepPerCitizen
	l.AddMoney(income - expenses)
	return income, expenses
}

// updatePopulation 向容量靠拢，单次不越过容量。
func (m *Model) updatePopulation() int {
	l := m.ledger
	capacity := m.capacity()
	pop := l.Population()
	next := pop
	reason := ""
	switch {
	case pop < capacity:
		grow := int(math.Ceil(float64(pop)*m.cfg.GrowthRate*l.Happiness()/100)) + 1
		next = pop + min(grow, capacity-pop)
		reason = "growth"
	case pop > capacity:
		shrink := int(math.Ceil(float64(pop-capacity) * m.cfg.EvictionRate))
		next = max(pop-shrink, capacity)
		reason = "eviction"
	}
	if next != pop {
		l.SetPopulation(next)
		m.events.Publish(entity.PopulationChanged{Old: pop, New: next, Reason: reason})
	}
	return capacity
}

// ApplyTrade 外部贸易收入入账，并随机扰动一个市场价格 ±TradeNoise。
func (m *Model) ApplyTrade(value float64) entity.TradeCompleted {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	m.ledger.AddMoney(value)
	c := entity.MarketCategories[m.rng.IntN(len(entity.MarketCategories))]
	p := m.ledger.MarketPrice(c) * (1 + (m.rng.Float64()*2-1)*m.cfg.TradeNoise)
	p = m.ledger.SetMarketPrice(c, p)
	ev := entity.TradeCompleted{Category: c, Value: value, Price: p}
	m.events.Publish(ev)
	return ev
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
