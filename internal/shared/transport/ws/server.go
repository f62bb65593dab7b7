package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"TownBuilder/modules/kit/logx"
)

// Server 负责升级 HTTP 连接，把新连接挂到路由与广播中心。
type Server struct {
	router   *Router
	hub      *Hub
	log      logx.Logger
	upgrader websocket.Upgrader
	// OnAccept 在连接开始读写前调用，可据握手请求给连接设置属性（如鉴权角色）
	OnAccept func(req *http.Request, c WSConn)
	// OnConnect 在连接开始读写后调用，可用于推送初始状态
	OnConnect func(c WSConn)
}

func NewServer(r *Router, hub *Hub, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		hub:    hub,
		log:    l,
		upgrader: websocket.Upgrader{
			// 允许所有跨域请求
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	id := uuid.NewString()
	conn := NewWsServer(id, wsConn, s.router, s.log)
	s.log.Info("websocket connected", zap.String("conn_id", id), zap.String("addr", conn.Addr()))
	if s.OnAccept != nil {
		s.OnAccept(req, conn)
	}

	conn.Run()
	if s.hub != nil {
		s.hub.Add(conn)
	}
	conn.Push(WelcomeMsg, map[string]string{"id": id})
	if s.OnConnect != nil {
		s.OnConnect(conn)
	}
}
