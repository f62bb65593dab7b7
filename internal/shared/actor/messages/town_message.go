package messages

type HTState struct {
	TownBaseMessage
}

type HTPlace struct {
	TownBaseMessage
	X, Z     int
	Category string
	Type     string
}

type HTCanPlace struct {
	TownBaseMessage
	X, Z     int
	Category string
	Type     string
}

type HTMove struct {
	TownBaseMessage
	FromX, FromZ int
	ToX, ToZ     int
}

type HTRemove struct {
	TownBaseMessage
	X, Z int
}

type HTBuildings struct {
	TownBaseMessage
	Category string
}

type HTBuildingAt struct {
	TownBaseMessage
	X, Z int
}

type HTTile struct {
	TownBaseMessage
	X, Z int
}

type HTSetTax struct {
	TownBaseMessage
	Rate int
}

type HTSetSpeed struct {
	TownBaseMessage
	Speed float64
}

type HTSetSandbox struct {
	TownBaseMessage
	On bool
}

type HTTrade struct {
	TownBaseMessage
	Value float64
}

type HTTriggerEvent struct {
	TownBaseMessage
	Kind string
}

type HTRegenerate struct {
	TownBaseMessage
	Seed int64
}

type HTReports struct {
	TownBaseMessage
	FromDay int
	Limit   int
}

type PlaceCheck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}
