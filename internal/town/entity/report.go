package entity

// ActiveEvent 是正在生效的城镇事件（节日、瘟疫等），按天倒计时。
type ActiveEvent struct {
	Kind          string  `json:"kind" bson:"kind"`
	HappinessDiff float64 `json:"happinessDiff" bson:"happiness_diff"`
	RemainingDays int     `json:"remainingDays" bson:"remaining_days"`
	StartedOnDay  int     `json:"startedOnDay" bson:"started_on_day"`
}

// DayReport 是一次日结的完整记录。
type DayReport struct {
	TownID       TownID               `json:"townId"`
	Day          int                  `json:"day"`
	Money        float64              `json:"money"`
	Population   int                  `json:"population"`
	Happiness    float64              `json:"happiness"`
	TaxRevenue   int                  `json:"taxRevenue"`
	Income       float64              `json:"income"`
	Expenses     float64              `json:"expenses"`
	Capacity     int                  `json:"capacity"`
	Jobs         int                  `json:"jobs"`
	Buildings    map[Category]int     `json:"buildings"`
	MarketPrices map[Category]float64 `json:"marketPrices"`
	Events       []string             `json:"events,omitempty"`
}

// TownPersistSnapshot 是写库单元：最新概览 + 自上次落库以来的日报。
// Version 单调递增，写库失败重排时高版本覆盖低版本。
type TownPersistSnapshot struct {
	Version uint64
	Summary Summary
	Reports []DayReport
}

// BuildingStats 是经济日结需要的建筑聚合值，由放置引擎按网格现算。
type BuildingStats struct {
	Total            int `json:"total"`
	Jobs             int `json:"jobs"`
	Capacity         int `json:"capacity"`
	Pollution        int `json:"pollution"`
	CivicHappiness   int `json:"civicHappiness"`
	ResidentialCost  int `json:"residentialCost"`
	CommercialIncome int `json:"commercialIncome"`
}
