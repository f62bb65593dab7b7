package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"TownBuilder/modules/kit/logx"
)

const (
	outQueueSize = 256
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	maxMsgSize   = 64 << 10
)

// WsServer 是单个 websocket 连接：读循环分发请求，写循环串行发送。
type WsServer struct {
	id       string
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(id string, wsConn *websocket.Conn, router *Router, l logx.Logger) *WsServer {
	return &WsServer{
		id:       id,
		conn:     wsConn,
		router:   router,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l.With(zap.String("conn_id", id)),
	}
}

func (s *WsServer) ID() string {
	return s.id
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 非阻塞入队，队列满或连接已关闭时返回 false。
func (s *WsServer) Push(name string, data any) bool {
	return s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(m *WsMsgResp) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- m:
		return true
	default:
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()

	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws read msg", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var body ReqBody
		if err := json.Unmarshal(data, &body); err != nil {
			s.log.Warn("ws unmarshal request", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &body, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: body.Seq, Name: body.Name}}
		if body.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(body.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.router.Dispatch(&req, &resp)
		}
		if !s.enqueue(&resp) {
			s.log.Warn("ws response dropped", zap.String("name", body.Name))
		}
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) write(msg *WsMsgResp) {
	raw, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws marshal response", zap.Error(err))
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		s.log.Warn("ws write", zap.Error(err))
		s.Close()
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}
