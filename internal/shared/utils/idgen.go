package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// IDGenerator 生成建筑等实体的唯一 id。
type IDGenerator interface {
	NextID() int64
}

const (
	// 2025-01-01 00:00:00 UTC，毫秒
	idEpochMilli int64 = 1735689600000

	nodeBits = 8
	seqBits  = 14

	maxNode = 1<<nodeBits - 1
	maxSeq  = 1<<seqBits - 1
)

// Snowflake 时间戳 + 节点 + 序号，单进程内严格递增。
type Snowflake struct {
	mu   sync.Mutex
	node int64
	last int64
	seq  int64
	now  func() int64
}

func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > maxNode {
		return nil, fmt.Errorf("snowflake node out of range [0,%d]: %d", maxNode, node)
	}
	return &Snowflake{node: node, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

// NewSnowflakeFromEnv 从 TOWN_NODE_ID 读节点号，未设置时为 1。
func NewSnowflakeFromEnv() (*Snowflake, error) {
	node := int64(1)
	if raw := strings.TrimSpace(os.Getenv("TOWN_NODE_ID")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TOWN_NODE_ID: %w", err)
		}
		node = v
	}
	return NewSnowflake(node)
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts < s.last {
		// 时钟回拨沿用上次时间戳
		ts = s.last
	}
	if ts == s.last {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			// 序号用完借用下一毫秒，不忙等
			ts = s.last + 1
		}
	} else {
		s.seq = 0
	}
	s.last = ts
	return (ts-idEpochMilli)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}

// Sequence 从 1 开始递增，测试与离线生成用。
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) NextID() int64 {
	return s.n.Add(1)
}
