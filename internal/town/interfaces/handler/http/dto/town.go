package dto

import "time"

type CoordQuery struct {
	X *int `form:"x" binding:"required"`
	Z *int `form:"z" binding:"required"`
}

type CanPlaceQuery struct {
	CoordQuery
	Category string `form:"category" binding:"required"`
	Type     string `form:"type" binding:"required"`
}

type BuildingsQuery struct {
	Category string `form:"category"`
}

type ReportsQuery struct {
	From  int `form:"from"`
	Limit int `form:"limit"`
}

type PlaceReq struct {
	X        *int   `json:"x" binding:"required"`
	Z        *int   `json:"z" binding:"required"`
	Category string `json:"category" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

type MoveReq struct {
	FromX *int `json:"fromX" binding:"required"`
	FromZ *int `json:"fromZ" binding:"required"`
	ToX   *int `json:"toX" binding:"required"`
	ToZ   *int `json:"toZ" binding:"required"`
}

type TaxReq struct {
	Rate *int `json:"rate" binding:"required"`
}

type SpeedReq struct {
	Speed *float64 `json:"speed" binding:"required"`
}

type SandboxReq struct {
	On *bool `json:"on" binding:"required"`
}

type TradeReq struct {
	Value *float64 `json:"value" binding:"required"`
}

type EventReq struct {
	Kind string `json:"kind" binding:"required"`
}

// RegenerateReq 不带 seed 时随机取一个。
type RegenerateReq struct {
	Seed *int64 `json:"seed"`
}

type TokenReq struct {
	Key string `json:"key" binding:"required"`
}

type TokenResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
