package placement

import "TownBuilder/modules/kit/errx"

// Reason 是放置/移动/拆除失败的第一条原因。ReasonOK 表示通过。
type Reason string

const (
	ReasonOK                  Reason = ""
	ReasonOccupied            Reason = "occupied"
	ReasonUnknownType         Reason = "unknown_type"
	ReasonAirportTerrain      Reason = "airport_terrain"
	ReasonFarmHouseMissing    Reason = "farm_house_missing"
	ReasonTerrain             Reason = "terrain"
	ReasonNoRoad              Reason = "no_road"
	ReasonInsufficientFunds   Reason = "insufficient_funds"
	ReasonNotFound            Reason = "not_found"
	ReasonDestinationOccupied Reason = "destination_occupied"
	ReasonOutOfBounds         Reason = "out_of_bounds"
)

func (r Reason) OK() bool {
	return r == ReasonOK
}

func (r Reason) String() string {
	if r == ReasonOK {
		return "ok"
	}
	return string(r)
}

func (r Reason) ReasonCode() string {
	return r.String()
}

const CodePlaceRejected = errx.Code("TOWN_PLACE_REJECTED")

var ErrPlaceRejected = errx.NewBiz(CodePlaceRejected, "placement rejected")

// Err 把原因包成业务错误，OK 返回 nil。
func (r Reason) Err() error {
	if r.OK() {
		return nil
	}
	return ErrPlaceRejected.WithReason(r)
}
