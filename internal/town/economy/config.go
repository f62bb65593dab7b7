package economy

import (
	"TownBuilder/internal/shared/gameconfig/building"
	"TownBuilder/internal/town/entity"
)

// Config 是日结用到的全部常数。
type Config struct {
	TaxPerCitizen float64
	// 住宅按造价、商业按收入收建筑税，再乘 taxRate/10
	ResidentialLevy float64
	CommercialLevy  float64

	CommercialDailyIncome float64
	IndustrialDailyIncome float64
	Maintenance           map[entity.Category]float64
	UpkeepPerCitizen      float64

	CapacityPerResidence int
	GrowthRate           float64
	EvictionRate         float64

	PriceDrift    float64
	InflationRate float64
	PriceNoise    float64
	TradeNoise    float64

	// 每日随机触发城镇事件的概率
	EventChance float64
}

func DefaultConfig() Config {
	return Config{
		TaxPerCitizen:         5,
		ResidentialLevy:       0.001,
		CommercialLevy:        0.05,
		CommercialDailyIncome: 50,
		IndustrialDailyIncome: 100,
		Maintenance: map[entity.Category]float64{
			building.Residential:  2,
			building.Commercial:   5,
			building.Industrial:   10,
			building.Civic:        20,
			building.Recreational: 5,
			building.Agricultural: 2,
			building.Transport:    30,
			building.Road:         0.5,
		},
		UpkeepPerCitizen:     0.5,
		CapacityPerResidence: 10,
		GrowthRate:           0.05,
		EvictionRate:         0.2,
		PriceDrift:           0.01,
		InflationRate:        0.001,
		PriceNoise:           0.02,
		TradeNoise:           0.01,
		EventChance:          0.05,
	}
}

// WithMaintenance 用配置文件里的维护费覆盖默认值，未列出的类别保持不变。
func (c Config) WithMaintenance(m map[string]float64) Config {
	merged := make(map[entity.Category]float64, len(c.Maintenance)+len(m))
	for k, v := range c.Maintenance {
		merged[k] = v
	}
	for k, v := range m {
		if v >= 0 {
			merged[entity.Category(k)] = v
		}
	}
	c.Maintenance = merged
	return c
}
