package economy

import (
	"math"

	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
)

// 理想的 住宅/商业/工业 比例
var idealMix = [3]float64{0.5, 0.3, 0.2}

// recomputeHappiness 每天全量重算，不做增量。
func (m *Model) recomputeHappiness(stats entity.BuildingStats) {
	l := m.ledger
	pop := float64(l.Population())

	h := math.Max(40, 70-pop/1000*5)
	h += taxModifier(l.TaxRate())
	h += jobModifier(stats.Jobs, l.Population())
	h += math.Max(0, math.Min(15, float64(stats.CivicHappiness)))
	h += math.Max(-20, -float64(stats.Pollution)*0.5)
	h += balanceScore(l.Count(building.Residential), l.Count(building.Commercial), l.Count(building.Industrial))
	h += m.eventHappiness()

	// 城市越大越难让人满意
	h *= math.Max(0.8, 1-pop/50000)
	l.SetHappiness(h)
}

func taxModifier(rate int) float64 {
	if rate > 15 {
		return -float64(rate-15) * 2
	}
	return float64(15-rate) * 0.5
}

// jobModifier 岗位/人口 比：<0.5 扣分，0.5~1.2 线性加分，>1.2 封顶。
func jobModifier(jobs, population int) float64 {
	if population <= 0 {
		return 0
	}
	ratio := float64(jobs) / float64(population)
	switch {
	case ratio < 0.5:
		return -(0.5 - ratio) * 20
	case ratio <= 1.2:
		return (ratio - 0.5) / 0.7 * 10
	default:
		return 10
	}
}

func balanceScore(residential, commercial, industrial int) float64 {
	total := float64(residential + commercial + industrial)
	if total == 0 {
		return 0
	}
	deviation := math.Abs(float64(residential)/total-idealMix[0]) +
		math.Abs(float64(commercial)/total-idealMix[1]) +
		math.Abs(float64(industrial)/total-idealMix[2])
	return math.Max(-10, 10*(1-deviation))
}
