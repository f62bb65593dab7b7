package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"math/rand/v2"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/security"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/shared/transport/http/middleware"
	"TownBuilder/internal/town/interfaces/handler"
	"TownBuilder/internal/town/interfaces/handler/http/dto"
)

type HttpHandler struct {
	town *handler.Town
}

func NewHttpHandler(t *handler.Town) *HttpHandler {
	return &HttpHandler{town: t}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/token", h.Token)

	townGroup := group.Group("/town")
	townGroup.GET("", h.State)
	townGroup.GET("/buildings", h.Buildings)
	townGroup.GET("/buildings/at", h.BuildingAt)
	townGroup.GET("/can-place", h.CanPlace)
	townGroup.GET("/terrain", h.Terrain)
	townGroup.GET("/reports", h.Reports)

	admin := townGroup.Group("", middleware.RequireRole(h.town.Signer, security.RoleAdmin))
	admin.POST("/buildings", h.Place)
	admin.POST("/buildings/move", h.Move)
	admin.DELETE("/buildings", h.Remove)
	admin.PUT("/tax", h.SetTax)
	admin.PUT("/speed", h.SetSpeed)
	admin.PUT("/sandbox", h.SetSandbox)
	admin.POST("/trade", h.Trade)
	admin.POST("/events", h.TriggerEvent)
	admin.POST("/regenerate", h.Regenerate)
}

func (h *HttpHandler) Token(c *gin.Context) {
	if !h.town.Signer.Enabled() || h.town.AdminKey == "" {
		h.fail(c, transport.NotFound, "未启用管理鉴权")
		return
	}
	var req dto.TokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.town.AdminKey)) != 1 {
		h.fail(c, transport.Unauthorized, "管理密钥错误")
		return
	}
	tok, exp, err := h.town.Signer.Award("admin", security.RoleAdmin)
	if err != nil {
		h.fail(c, transport.SystemError, "签发令牌失败")
		return
	}
	h.ok(c, dto.TokenResp{Token: tok, ExpiresAt: exp})
}

func (h *HttpHandler) State(c *gin.Context) {
	h.ask(c, &messages.HTState{TownBaseMessage: h.town.Base()})
}

func (h *HttpHandler) Buildings(c *gin.Context) {
	var q dto.BuildingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(c, &messages.HTBuildings{TownBaseMessage: h.town.Base(), Category: q.Category})
}

func (h *HttpHandler) BuildingAt(c *gin.Context) {
	var q dto.CoordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "坐标参数有误")
		return
	}
	h.ask(c, &messages.HTBuildingAt{TownBaseMessage: h.town.Base(), X: *q.X, Z: *q.Z})
}

func (h *HttpHandler) CanPlace(c *gin.Context) {
	var q dto.CanPlaceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(c, &messages.HTCanPlace{TownBaseMessage: h.town.Base(), X: *q.X, Z: *q.Z, Category: q.Category, Type: q.Type})
}

func (h *HttpHandler) Terrain(c *gin.Context) {
	var q dto.CoordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "坐标参数有误")
		return
	}
	h.ask(c, &messages.HTTile{TownBaseMessage: h.town.Base(), X: *q.X, Z: *q.Z})
}

func (h *HttpHandler) Reports(c *gin.Context) {
	var q dto.ReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.From < 0 || q.Limit < 0 {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(c, &messages.HTReports{TownBaseMessage: h.town.Base(), FromDay: q.From, Limit: q.Limit})
}

func (h *HttpHandler) Place(c *gin.Context) {
	var req dto.PlaceReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTPlace{TownBaseMessage: h.town.Base(), X: *req.X, Z: *req.Z, Category: req.Category, Type: req.Type})
}

func (h *HttpHandler) Move(c *gin.Context) {
	var req dto.MoveReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTMove{
		TownBaseMessage: h.town.Base(),
		FromX:           *req.FromX,
		FromZ:           *req.FromZ,
		ToX:             *req.ToX,
		ToZ:             *req.ToZ,
	})
}

func (h *HttpHandler) Remove(c *gin.Context) {
	var q dto.CoordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, transport.InvalidParam, "坐标参数有误")
		return
	}
	h.ask(c, &messages.HTRemove{TownBaseMessage: h.town.Base(), X: *q.X, Z: *q.Z})
}

func (h *HttpHandler) SetTax(c *gin.Context) {
	var req dto.TaxReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTSetTax{TownBaseMessage: h.town.Base(), Rate: *req.Rate})
}

func (h *HttpHandler) SetSpeed(c *gin.Context) {
	var req dto.SpeedReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTSetSpeed{TownBaseMessage: h.town.Base(), Speed: *req.Speed})
}

func (h *HttpHandler) SetSandbox(c *gin.Context) {
	var req dto.SandboxReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTSetSandbox{TownBaseMessage: h.town.Base(), On: *req.On})
}

func (h *HttpHandler) Trade(c *gin.Context) {
	var req dto.TradeReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTTrade{TownBaseMessage: h.town.Base(), Value: *req.Value})
}

func (h *HttpHandler) TriggerEvent(c *gin.Context) {
	var req dto.EventReq
	if !h.bind(c, &req) {
		return
	}
	h.ask(c, &messages.HTTriggerEvent{TownBaseMessage: h.town.Base(), Kind: req.Kind})
}

func (h *HttpHandler) Regenerate(c *gin.Context) {
	var req dto.RegenerateReq
	// 允许空 body
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	seed := rand.Int64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	h.ask(c, &messages.HTRegenerate{TownBaseMessage: h.town.Base(), Seed: seed})
}

func (h *HttpHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return false
	}
	return true
}

func (h *HttpHandler) ask(c *gin.Context, msg messages.TownMessage) {
	ctx := c.Request.Context()
	transport.AddFields(ctx, zap.Int("town_id", int(h.town.TownID)))
	reply, err := h.town.Runtime.Ask(ctx, msg)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, reply.Data)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, transport.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, transport.Fail(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, reason, msg := handler.HandleError(ctx, h.town.Log, c.Request.Method+" "+c.FullPath(), err)
	c.JSON(nethttp.StatusOK, transport.Response{Code: code, Reason: reason, Msg: msg})
}
