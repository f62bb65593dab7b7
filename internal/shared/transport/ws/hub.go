package ws

import (
	"sync"

	"go.uber.org/zap"

	"TownBuilder/modules/kit/logx"
)

// Hub 记录在线连接，用于广播领域事件。
type Hub struct {
	mu    sync.RWMutex
	conns map[string]WSConn
	log   logx.Logger
}

func NewHub(l logx.Logger) *Hub {
	if l == nil {
		l = logx.Nop()
	}
	return &Hub{conns: make(map[string]WSConn), log: l.Named("ws.hub")}
}

// Add 注册连接，连接关闭后自动移除。
func (h *Hub) Add(c WSConn) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	h.mu.Unlock()

	go func() {
		<-c.Done()
		h.Remove(c.ID())
	}()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast 推送给所有连接；发送队列满的连接跳过本条。
func (h *Hub) Broadcast(name string, data any) {
	h.mu.RLock()
	conns := make([]WSConn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.Push(name, data) {
			h.log.Warn("ws push dropped", zap.String("conn_id", c.ID()), zap.String("name", name))
		}
	}
}
