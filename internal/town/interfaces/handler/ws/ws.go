package ws

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"TownBuilder/internal/shared/actor/messages"
	"TownBuilder/internal/shared/security"
	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/shared/transport/ws"
	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/interfaces/handler"
	"TownBuilder/internal/town/interfaces/handler/ws/dto"
)

const (
	StateMsg = "town.state"
	// RoleKey 是连接上保存已校验角色的属性名
	RoleKey = "role"
)

type Subscriber interface {
	Subscribe(ctx context.Context, townID entity.TownID, fn func(entity.Event)) (func(), error)
}

type WsHandler struct {
	town *handler.Town
}

func NewWsHandler(t *handler.Town) *WsHandler {
	return &WsHandler{town: t}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	townGroup := r.Group("town")
	townGroup.Handle("place", h.place)
	townGroup.Handle("move", h.move)
	townGroup.Handle("remove", h.remove)
	townGroup.Handle("state", h.state)
}

// BindEvents 把城镇事件总线接到 hub，事件名即推送名。
func (h *WsHandler) BindEvents(ctx context.Context, sub Subscriber, hub *ws.Hub) (func(), error) {
	return sub.Subscribe(ctx, h.town.TownID, func(e entity.Event) {
		hub.Broadcast(e.EventName(), e)
	})
}

// Authorize 在握手时校验令牌，通过则把角色记在连接上。
// 令牌取 Authorization: Bearer 头，浏览器无法设置头时取 ?token=。
func (h *WsHandler) Authorize(req *http.Request, c ws.WSConn) {
	if !h.town.Signer.Enabled() {
		return
	}
	raw, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		raw = req.URL.Query().Get("token")
	}
	if raw == "" {
		return
	}
	claims, err := h.town.Signer.ParseToken(raw)
	if err != nil {
		h.town.Log.Warn("ws token rejected", zap.String("conn_id", c.ID()), zap.Error(err))
		return
	}
	c.SetProperty(RoleKey, claims.Role)
}

// requireAdmin 与 http 管理分组同规则：未配置密钥时放行。
func (h *WsHandler) requireAdmin(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) bool {
	if !h.town.Signer.Enabled() {
		return true
	}
	if wsReq.Conn != nil {
		if role, _ := wsReq.Conn.GetProperty(RoleKey).(string); role == security.RoleAdmin {
			return true
		}
	}
	h.fail(wsResp, transport.Unauthorized, "需要管理令牌")
	return false
}

// PushState 新连接建立后推一次完整状态。
func (h *WsHandler) PushState(c ws.WSConn) {
	reply, err := h.town.Runtime.Ask(context.Background(), &messages.HTState{TownBaseMessage: h.town.Base()})
	if err != nil {
		h.town.Log.Warn("push initial state failed", zap.String("conn_id", c.ID()), zap.Error(err))
		return
	}
	c.Push(StateMsg, reply.Data)
}

func (h *WsHandler) place(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !h.requireAdmin(wsReq, wsResp) {
		return
	}
	var req dto.PlaceReq
	if err := ws.Bind(wsReq, &req); err != nil || req.X == nil || req.Z == nil || req.Category == "" || req.Type == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(ctx, wsResp, &messages.HTPlace{TownBaseMessage: h.town.Base(), X: *req.X, Z: *req.Z, Category: req.Category, Type: req.Type})
}

func (h *WsHandler) move(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !h.requireAdmin(wsReq, wsResp) {
		return
	}
	var req dto.MoveReq
	if err := ws.Bind(wsReq, &req); err != nil || req.FromX == nil || req.FromZ == nil || req.ToX == nil || req.ToZ == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(ctx, wsResp, &messages.HTMove{TownBaseMessage: h.town.Base(), FromX: *req.FromX, FromZ: *req.FromZ, ToX: *req.ToX, ToZ: *req.ToZ})
}

func (h *WsHandler) remove(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if !h.requireAdmin(wsReq, wsResp) {
		return
	}
	var req dto.CoordReq
	if err := ws.Bind(wsReq, &req); err != nil || req.X == nil || req.Z == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	h.ask(ctx, wsResp, &messages.HTRemove{TownBaseMessage: h.town.Base(), X: *req.X, Z: *req.Z})
}

func (h *WsHandler) state(ctx context.Context, _ *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	h.ask(ctx, wsResp, &messages.HTState{TownBaseMessage: h.town.Base()})
}

func (h *WsHandler) ask(ctx context.Context, wsResp *ws.WsMsgResp, msg messages.TownMessage) {
	transport.AddFields(ctx, zap.Int("town_id", int(h.town.TownID)))
	reply, err := h.town.Runtime.Ask(ctx, msg)
	if err != nil {
		code, reason, text := handler.HandleError(ctx, h.town.Log, "WS "+wsResp.Body.Name, err)
		wsResp.Body.Code = code
		wsResp.Body.Reason = reason
		wsResp.Body.Msg = text
		return
	}
	h.ok(wsResp, reply.Data)
}

func (h *WsHandler) ok(wsResp *ws.WsMsgResp, data any) {
	wsResp.Body.Code = transport.OK
	wsResp.Body.Msg = data
}

func (h *WsHandler) fail(wsResp *ws.WsMsgResp, code int, msg string) {
	wsResp.Body.Code = code
	wsResp.Body.Msg = msg
}
