package interfaces

import (
	"context"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	transporthttp "TownBuilder/internal/shared/transport/http"
	"TownBuilder/internal/shared/transport/ws"
	"TownBuilder/internal/town/interfaces/handler"
	"TownBuilder/internal/town/interfaces/handler/http"
	ws2 "TownBuilder/internal/town/interfaces/handler/ws"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(t *handler.Town) *Module {
	return &Module{
		wsHandler:   ws2.NewWsHandler(t),
		httpHandler: http.NewHttpHandler(t),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

// BindEvents 订阅城镇事件并广播到所有 ws 连接。
func (m *Module) BindEvents(ctx context.Context, sub ws2.Subscriber, hub *ws.Hub) (func(), error) {
	return m.wsHandler.BindEvents(ctx, sub, hub)
}

func (m *Module) OnAccept(req *nethttp.Request, c ws.WSConn) {
	m.wsHandler.Authorize(req, c)
}

func (m *Module) OnConnect(c ws.WSConn) {
	m.wsHandler.PushState(c)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
