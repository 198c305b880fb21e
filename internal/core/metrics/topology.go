package metrics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-mmst/pkg/types"
)

// TopologySnapshot 拓扑快照
type TopologySnapshot struct {
	// 时间信息
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptimeSeconds"`

	// 已连接集合
	ConnectedPeers []string `json:"connectedPeers"`
	MaxPeers       int      `json:"maxPeers"`

	// 远端连接，空字符串表示没有
	FarPeer string `json:"farPeer,omitempty"`

	// 运行周期统计
	Cycles CycleStats `json:"cycles"`
}

// ConnectedCount 返回已连接节点数
func (s *TopologySnapshot) ConnectedCount() int {
	return len(s.ConnectedPeers)
}

// HasFar 是否存在远端连接
func (s *TopologySnapshot) HasFar() bool {
	return s.FarPeer != ""
}

// JSON 返回快照的 JSON 表示
func (s *TopologySnapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// Source 快照数据源
type Source interface {
	ConnectedPeers() []types.PeerID
	FarPeer() types.PeerID
	MaxPeers() int
	CycleStats() CycleStats
}

// TopologyCollector 拓扑收集器
type TopologyCollector struct {
	mu sync.RWMutex

	clock     clock.Clock
	startTime time.Time
	source    Source

	lastSnapshot *TopologySnapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTopologyCollector 创建拓扑收集器
func NewTopologyCollector(source Source, clk clock.Clock) *TopologyCollector {
	if clk == nil {
		clk = clock.New()
	}
	return &TopologyCollector{
		clock:     clk,
		startTime: clk.Now(),
		source:    source,
	}
}

// Collect 收集拓扑快照
func (c *TopologyCollector) Collect() *TopologySnapshot {
	now := c.clock.Now()

	snapshot := &TopologySnapshot{
		Timestamp:      now,
		UptimeSeconds:  int64(now.Sub(c.startTime).Seconds()),
		ConnectedPeers: []string{},
	}

	if c.source != nil {
		for _, id := range c.source.ConnectedPeers() {
			snapshot.ConnectedPeers = append(snapshot.ConnectedPeers, id.String())
		}
		if far := c.source.FarPeer(); !far.IsEmpty() {
			snapshot.FarPeer = far.String()
		}
		snapshot.MaxPeers = c.source.MaxPeers()
		snapshot.Cycles = c.source.CycleStats()
	}

	c.mu.Lock()
	c.lastSnapshot = snapshot
	c.mu.Unlock()

	return snapshot
}

// LogSnapshot 输出拓扑快照日志
func (c *TopologyCollector) LogSnapshot(snapshot *TopologySnapshot) {
	if snapshot == nil {
		return
	}

	logger.Info("拓扑快照",
		"uptime", snapshot.UptimeSeconds,
		"connected", snapshot.ConnectedCount(),
		"maxPeers", snapshot.MaxPeers,
		"hasFar", snapshot.HasFar(),
		"cyclesStarted", snapshot.Cycles.Started,
		"cyclesAbandoned", snapshot.Cycles.Abandoned,
		"noPeersReachable", snapshot.Cycles.NoPeersReachable,
	)
}

// GetLastSnapshot 获取最新快照
func (c *TopologyCollector) GetLastSnapshot() *TopologySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSnapshot
}

// Start 启动周期性快照日志
func (c *TopologyCollector) Start(interval time.Duration) {
	if interval <= 0 {
		return
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.snapshotLoop(ctx, interval)

	logger.Debug("拓扑快照收集器已启动", "interval", interval)
}

// Stop 停止周期性快照
func (c *TopologyCollector) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// snapshotLoop 快照循环
func (c *TopologyCollector) snapshotLoop(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := c.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.LogSnapshot(c.Collect())
		}
	}
}
