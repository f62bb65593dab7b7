package dto

// 坐标用指针区分"缺省"与 0。
type PlaceReq struct {
	X        *int   `json:"x"`
	Z        *int   `json:"z"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

type MoveReq struct {
	FromX *int `json:"fromX"`
	FromZ *int `json:"fromZ"`
	ToX   *int `json:"toX"`
	ToZ   *int `json:"toZ"`
}

type CoordReq struct {
	X *int `json:"x"`
	Z *int `json:"z"`
}
