package entity

import (
	"math"

	"TownBuilder/internal/shared/gameconfig/building"
)

const (
	HistoryDays = 30

	MinHappiness = 0.0
	MaxHappiness = 100.0

	MinMarketPrice = 0.5
	MaxMarketPrice = 2.0

	MinTaxRate = 0
	MaxTaxRate = 30
)

type TownID int

// MarketCategories 是有市场价格指数的三个类别。
var MarketCategories = [3]Category{building.Residential, building.Commercial, building.Industrial}

// Ledger 是一个城镇的全部可变经济状态：资金、人口、幸福度、天数、税率、
// 分类建筑计数与 30 天历史。
//
// 约束：
// - happiness 永远在 [0,100]
// - dayCount 只增不减
// - counts 是网格内容的缓存，必须与网格同步增减
// - 市场价格在 [0.5,2.0]
type Ledger struct {
	townID     TownID
	money      float64
	population int
	happiness  float64
	dayCount   int
	taxRate    int
	sandbox    bool

	counts map[Category]int
	prices map[Category]float64

	moneyHistory      *Ring[float64]
	populationHistory *Ring[int]
	happinessHistory  *Ring[float64]

	dirty bool
}

func NewLedger(townID TownID, startingMoney float64, taxRate int) *Ledger {
	l := &Ledger{
		townID:            townID,
		money:             startingMoney,
		happiness:         50,
		taxRate:           clampInt(taxRate, MinTaxRate, MaxTaxRate),
		counts:            make(map[Category]int),
		prices:            make(map[Category]float64, len(MarketCategories)),
		moneyHistory:      NewRing[float64](HistoryDays),
		populationHistory: NewRing[int](HistoryDays),
		happinessHistory:  NewRing[float64](HistoryDays),
	}
	for _, c := range MarketCategories {
		l.prices[c] = 1.0
	}
	return l
}

func (l *Ledger) TownID() TownID {
	return l.townID
}

func (l *Ledger) Money() float64 {
	return l.money
}

func (l *Ledger) AddMoney(delta float64) {
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	l.money += delta
	l.dirty = true
}

func (l *Ledger) Sandbox() bool {
	return l.sandbox
}

func (l *Ledger) SetSandbox(on bool) {
	if l.sandbox == on {
		return
	}
	l.sandbox = on
	l.dirty = true
}

// CanAfford 沙盒模式下总是 true。
func (l *Ledger) CanAfford(cost int) bool {
	return l.sandbox || l.money >= float64(cost)
}

func (l *Ledger) Population() int {
	return l.population
}

// SetPopulation 人口不会为负。
func (l *Ledger) SetPopulation(n int) {
	if n < 0 {
		n = 0
	}
	if n == l.population {
		return
	}
	l.population = n
	l.dirty = true
}

func (l *Ledger) Happiness() float64 {
	return l.happiness
}

func (l *Ledger) SetHappiness(h float64) {
	if math.IsNaN(h) {
		h = MinHappiness
	}
	l.happiness = clampFloat(h, MinHappiness, MaxHappiness)
	l.dirty = true
}

func (l *Ledger) DayCount() int {
	return l.dayCount
}

func (l *Ledger) AdvanceDay() int {
	l.dayCount++
	l.dirty = true
	return l.dayCount
}

func (l *Ledger) TaxRate() int {
	return l.taxRate
}

func (l *Ledger) SetTaxRate(rate int) int {
	l.taxRate = clampInt(rate, MinTaxRate, MaxTaxRate)
	l.dirty = true
	return l.taxRate
}

func (l *Ledger) Count(c Category) int {
	return l.counts[c]
}

func (l *Ledger) Counts() map[Category]int {
	out := make(map[Category]int, len(l.counts))
	for k, v := range l.counts {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

func (l *Ledger) IncCount(c Category) {
	l.counts[c]++
	l.dirty = true
}

func (l *Ledger) DecCount(c Category) {
	if l.counts[c] > 0 {
		l.counts[c]--
	}
	l.dirty = true
}

// ResetCounts 仅用于重新生成世界。
func (l *Ledger) ResetCounts() {
	l.counts = make(map[Category]int)
	l.dirty = true
}

func (l *Ledger) MarketPrice(c Category) float64 {
	p, ok := l.prices[c]
	if !ok {
		return 1.0
	}
	return p
}

func (l *Ledger) SetMarketPrice(c Category, p float64) float64 {
	if math.IsNaN(p) {
		p = 1.0
	}
	p = clampFloat(p, MinMarketPrice, MaxMarketPrice)
	l.prices[c] = p
	l.dirty = true
	return p
}

func (l *Ledger) MarketPrices() map[Category]float64 {
	out := make(map[Category]float64, len(l.prices))
	for k, v := range l.prices {
		out[k] = v
	}
	return out
}

// RecordDay 把当日 money/population/happiness 追加到 30 天历史。
func (l *Ledger) RecordDay() {
	l.moneyHistory.Push(l.money)
	l.populationHistory.Push(l.population)
	l.happinessHistory.Push(l.happiness)
	l.dirty = true
}

type History struct {
	Money      []float64 `json:"money"`
	Population []int     `json:"population"`
	Happiness  []float64 `json:"happiness"`
}

func (l *Ledger) History() History {
	return History{
		Money:      l.moneyHistory.Values(),
		Population: l.populationHistory.Values(),
		Happiness:  l.happinessHistory.Values(),
	}
}

func (l *Ledger) Dirty() bool {
	return l.dirty
}

func (l *Ledger) ClearDirty() {
	l.dirty = false
}

// Summary 是对外展示与落库用的只读视图。
type Summary struct {
	TownID       TownID               `json:"townId"`
	Money        float64              `json:"money"`
	Population   int                  `json:"population"`
	Happiness    float64              `json:"happiness"`
	DayCount     int                  `json:"dayCount"`
	TaxRate      int                  `json:"taxRate"`
	Sandbox      bool                 `json:"sandbox"`
	Buildings    map[Category]int     `json:"buildings"`
	MarketPrices map[Category]float64 `json:"marketPrices"`
}

func (l *Ledger) Summary() Summary {
	return Summary{
		TownID:       l.townID,
		Money:        l.money,
		Population:   l.population,
		Happiness:    l.happiness,
		DayCount:     l.dayCount,
		TaxRate:      l.taxRate,
		Sandbox:      l.sandbox,
		Buildings:    l.Counts(),
		MarketPrices: l.MarketPrices(),
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
