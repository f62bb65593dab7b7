package ws

import (
	"context"
	"strings"

	"TownBuilder/internal/shared/transport"
	"TownBuilder/modules/kit/logx"
)

type Group struct {
	prefix   string
	handlers map[string]HandlerFunc
}

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

func (g *Group) Handle(name string, h HandlerFunc) {
	g.handlers[name] = h
}

type Router struct {
	groups map[string]*Group
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		groups: make(map[string]*Group),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	group := r.groups[prefix]
	if group == nil {
		group = &Group{prefix: prefix, handlers: make(map[string]HandlerFunc)}
		r.groups[prefix] = group
	}
	return group
}

// Dispatch 按 "组.处理器" 路由，例如 town.place。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	ctx := r.prepareDispatchContext(req, resp)
	defer r.writeAccessLog(ctx, resp)

	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		r.setErrorResponse(resp, transport.InvalidParam, "参数有误")
		return
	}
	h := r.findHandler(req.Body.Name, resp)
	if h == nil {
		return
	}
	h(ctx, req, resp)
}

func (r *Router) prepareDispatchContext(req *WsMsgReq, resp *WsMsgResp) context.Context {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(action)
	if resp != nil && resp.Body != nil {
		// 先置系统错误，避免 handler 漏设时出现成功假象
		resp.Body.Code = transport.SystemError
		resp.Body.Msg = nil
	}
	return ctx
}

func (r *Router) findHandler(route string, resp *WsMsgResp) HandlerFunc {
	prefix, name, ok := strings.Cut(route, ".")
	if !ok || prefix == "" || name == "" || strings.Contains(name, ".") {
		r.setErrorResponse(resp, transport.InvalidParam, "路由参数有误")
		return nil
	}
	group := r.groups[prefix]
	if group == nil {
		r.setErrorResponse(resp, transport.NotFound, "路由组不存在")
		return nil
	}
	h := group.handlers[name]
	if h == nil {
		r.setErrorResponse(resp, transport.NotFound, "路由处理器不存在")
		return nil
	}
	return h
}

func (r *Router) setErrorResponse(resp *WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = resp.Body.Code
		transport.SetErrorReason(ctx, resp.Body.Reason)
	}
	transport.SetBizCode(ctx, transport.BizCode(bizCode))
	transport.WriteAccessLog(ctx, r.log)
}

type Registrar interface {
	WsRegister(r *Router)
}
