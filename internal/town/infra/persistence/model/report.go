package model

import (
	"time"

	"TownBuilder/internal/town/entity"
)

// TownSummary 每个城镇一行，保存最近一次落库的概览。
type TownSummary struct {
	TownID     int                         `gorm:"column:town_id;primaryKey;not null;comment:城镇id" bson:"_id"`
	Money      float64                     `gorm:"column:money;not null" bson:"money"`
	Population int                         `gorm:"column:population;not null" bson:"population"`
	Happiness  float64                     `gorm:"column:happiness;not null" bson:"happiness"`
	DayCount   int                         `gorm:"column:day_count;not null" bson:"day_count"`
	TaxRate    int                         `gorm:"column:tax_rate;not null" bson:"tax_rate"`
	Sandbox    bool                        `gorm:"column:sandbox;not null" bson:"sandbox"`
	Buildings  map[entity.Category]int     `gorm:"column:buildings;type:json;serializer:json" bson:"buildings"`
	Prices     map[entity.Category]float64 `gorm:"column:market_prices;type:json;serializer:json" bson:"market_prices"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at;autoUpdateTime" bson:"updated_at"`
}

func (*TownSummary) TableName() string {
	return "town_summary"
}

// DayReport 日报流水，(town_id, day) 唯一。
type DayReport struct {
	TownID     int                         `gorm:"column:town_id;primaryKey;autoIncrement:false;comment:城镇id" bson:"town_id"`
	Day        int                         `gorm:"column:day;primaryKey;autoIncrement:false;comment:游戏日" bson:"day"`
	Money      float64                     `gorm:"column:money;not null" bson:"money"`
	Population int                         `gorm:"column:population;not null" bson:"population"`
	Happiness  float64                     `gorm:"column:happiness;not null" bson:"happiness"`
	TaxRevenue int                         `gorm:"column:tax_revenue;not null" bson:"tax_revenue"`
	Income     float64                     `gorm:"column:income;not null" bson:"income"`
	Expenses   float64                     `gorm:"column:expenses;not null" bson:"expenses"`
	Capacity   int                         `gorm:"column:capacity;not null" bson:"capacity"`
	Jobs       int                         `gorm:"column:jobs;not null" bson:"jobs"`
	Buildings  map[entity.Category]int     `gorm:"column:buildings;type:json;serializer:json" bson:"buildings"`
	Prices     map[entity.Category]float64 `gorm:"column:market_prices;type:json;serializer:json" bson:"market_prices"`
	Events     []string                    `gorm:"column:events;type:json;serializer:json" bson:"events,omitempty"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime" bson:"created_at"`
}

func (*DayReport) TableName() string {
	return "town_day_report"
}

func SummaryToModel(s entity.Summary) TownSummary {
	return TownSummary{
		TownID:     int(s.TownID),
		Money:      s.Money,
		Population: s.Population,
		Happiness:  s.Happiness,
		DayCount:   s.DayCount,
		TaxRate:    s.TaxRate,
		Sandbox:    s.Sandbox,
		Buildings:  s.Buildings,
		Prices:     s.MarketPrices,
		UpdatedAt:  time.Now(),
	}
}

func SummaryFromModel(m TownSummary) entity.Summary {
	return entity.Summary{
		TownID:       entity.TownID(m.TownID),
		Money:        m.Money,
		Population:   m.Population,
		Happiness:    m.Happiness,
		DayCount:     m.DayCount,
		TaxRate:      m.TaxRate,
		Sandbox:      m.Sandbox,
		Buildings:    m.Buildings,
		MarketPrices: m.Prices,
	}
}

func ReportToModel(r entity.DayReport) DayReport {
	return DayReport{
		TownID:     int(r.TownID),
		Day:        r.Day,
		Money:      r.Money,
		Population: r.Population,
		Happiness:  r.Happiness,
		TaxRevenue: r.TaxRevenue,
		Income:     r.Income,
		Expenses:   r.Expenses,
		Capacity:   r.Capacity,
		Jobs:       r.Jobs,
		Buildings:  r.Buildings,
		Prices:     r.MarketPrices,
		Events:     r.Events,
		CreatedAt:  time.Now(),
	}
}

func ReportFromModel(m DayReport) entity.DayReport {
	return entity.DayReport{
		TownID:       entity.TownID(m.TownID),
		Day:          m.Day,
		Money:        m.Money,
		Population:   m.Population,
		Happiness:    m.Happiness,
		TaxRevenue:   m.TaxRevenue,
		Income:       m.Income,
		Expenses:     m.Expenses,
		Capacity:     m.Capacity,
		Jobs:         m.Jobs,
		Buildings:    m.Buildings,
		MarketPrices: m.Prices,
		Events:       m.Events,
	}
}
