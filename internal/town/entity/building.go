package entity

import "TownBuilder/internal/shared/gameconfig/building"

type BuildingID int64

type Category = building.Category

// PlacedBuilding 是放置时对目录定义的快照，之后目录变化不会回溯影响。
// 只有放置引擎持有可变实例，对外一律返回值拷贝。
type PlacedBuilding struct {
	ID               BuildingID `json:"id"`
	Category         Category   `json:"category"`
	Type             string     `json:"type"`
	Pos              Coord      `json:"pos"`
	ConstructedOnDay int        `json:"constructedOnDay"`
	Cost             int        `json:"cost"`
	Capacity         int        `json:"capacity,omitempty"`
	Jobs             int        `json:"jobs,omitempty"`
	Income           int        `json:"income,omitempty"`
	Maintenance      int        `json:"maintenance,omitempty"`
	Happiness        int        `json:"happiness,omitempty"`
	Pollution        int        `json:"pollution,omitempty"`
}

func NewPlacedBuilding(id BuildingID, def building.Definition, pos Coord, day int) *PlacedBuilding {
	return &PlacedBuilding{
		ID:               id,
		Category:         def.Category,
		Type:             def.Type,
		Pos:              pos,
		ConstructedOnDay: day,
		Cost:             def.Cost,
		Capacity:         def.Capacity,
		Jobs:             def.Jobs,
		Income:           def.Income,
		Maintenance:      def.Maintenance,
		Happiness:        def.Happiness,
		Pollution:        def.Pollution,
	}
}

// IsRoad 判断能否作为"临近道路"的依据：水渠不算路。
func (b *PlacedBuilding) IsRoad() bool {
	return b != nil && b.Category == building.Road && b.Type != building.TypeWaterChannel
}
