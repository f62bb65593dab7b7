package economy

import (
	"TownBuilder/internal/shared/gameconfig/building"
)

// updateMarket 方向性漂移 → 通胀 → 钳制 → 随机 ±PriceNoise → 再钳制。
func (m *Model) updateMarket() {
	l := m.ledger
	res := l.Count(building.Residential)
	com := l.Count(building.Commercial)
	ind := l.Count(building.Industrial)

	drift := map[building.Category]int{}
	if capacity := m.capacity(); capacity > 0 {
		occ := float64(l.Population()) / float64(capacity)
		drift[building.Residential] = band(occ, 0.7, 0.9)
	}
	if res > 0 {
		drift[building.Commercial] = -band(float64(com)/float64(res), 0.4, 0.8)
	}
	if com > 0 {
		drift[building.Industrial] = -band(float64(ind)/float64(com), 0.5, 1.0)
	}

	for _, c := range []building.Category{building.Residential, building.Commercial, building.Industrial} {
		p := l.MarketPrice(c) * (1 + float64(drift[c])*m.cfg.PriceDrift)
		p = l.SetMarketPrice(c, p*(1+m.cfg.InflationRate))
		l.SetMarketPrice(c, p*(1+(m.rng.Float64()*2-1)*m.cfg.PriceNoise))
	}
}

// band 低于 lo 返回 -1，高于 hi 返回 1，区间内 0。
func band(v, lo, hi float64) int {
	switch {
	case v > hi:
		return 1
	case v < lo:
		return -1
	default:
		return 0
	}
}
