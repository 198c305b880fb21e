package mmst

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/connmgr"
	"github.com/dep2p/go-mmst/internal/core/eventbus"
	"github.com/dep2p/go-mmst/internal/core/topology"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/lib/log"
)

var logger = log.Logger("mmst")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Fx App 停止超时
	stopTimeout = 10 * time.Second
)

var _ pkgif.Topology = (*Overlay)(nil)

// Overlay MMST 覆盖网络
//
// 用户交互的主入口，组装拓扑引擎、连接门控、事件总线与指标。
type Overlay struct {
	self PeerID
	cfg  *config.Config
	app  *fx.App

	// 由 Fx 注入
	engine *topology.Engine
	bus    *eventbus.Bus
	gater  *connmgr.Gater

	mu      sync.Mutex
	started bool
	closed  bool
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建覆盖网络但不启动
//
// 配置在此校验，QueueTimeout 不大于 LookupTimeout 时返回 ErrTimeoutOrder。
//
//	overlay, err := mmst.New(selfID, lookup, connector,
//	    mmst.WithMaxPeers(8),
//	    mmst.WithPercentFar(0.5),
//	)
func New(self PeerID, lookup Lookup, connector Connector, opts ...Option) (*Overlay, error) {
	if self.IsEmpty() {
		return nil, topology.ErrEmptySelf
	}
	if lookup == nil {
		return nil, topology.ErrNilLookup
	}
	if connector == nil {
		return nil, topology.ErrNilConnector
	}

	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.toInternalConfig()
	if err != nil {
		return nil, fmt.Errorf("apply option: %w", err)
	}

	overlay := &Overlay{
		self: self.Clone(),
		cfg:  cfg,
	}
	overlay.app, err = buildFxApp(o, cfg, overlay.self, lookup, connector, overlay)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return overlay, nil
}

// Start 快捷启动函数
//
// 等价于 New() + Start()，返回时第一个运行周期已排队。
func Start(ctx context.Context, self PeerID, lookup Lookup, connector Connector, opts ...Option) (*Overlay, error) {
	o, err := New(self, lookup, connector, opts...)
	if err != nil {
		return nil, err
	}
	if err := o.Start(ctx); err != nil {
		_ = o.Close()
		return nil, fmt.Errorf("start overlay: %w", err)
	}
	return o, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动覆盖网络并排入第一个运行周期
func (o *Overlay) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrOverlayClosed
	}
	if o.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := o.app.Start(startCtx); err != nil {
		logger.Error("启动失败", "err", err)
		return err
	}
	o.started = true

	logger.Info("覆盖网络已启动",
		"self", o.self.ShortString(),
		"maxPeers", o.cfg.Topology.MaxPeers,
		"sampleSize", o.cfg.Topology.SampleSize)
	return nil
}

// Close 销毁覆盖网络
//
// 进行中的周期在下一个检查点退出，之后不再有新的周期。
// 已建立的连接不会被关闭，由传输层负责。重复调用无副作用。
func (o *Overlay) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	started := o.started
	o.mu.Unlock()

	var err error
	if started {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		err = o.app.Stop(ctx)
	}
	// 未启动时 OnStop 不会执行
	_ = o.engine.Close()
	_ = o.bus.Close()

	logger.Info("覆盖网络已关闭", "self", o.self.ShortString())
	return err
}

// IsRunning 是否已启动且未关闭
func (o *Overlay) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started && !o.closed
}

// ════════════════════════════════════════════════════════════════════════════
//                              拓扑操作
// ════════════════════════════════════════════════════════════════════════════

// Run 请求一次运行周期
//
// 例如发现层得知新节点后可主动调用。
func (o *Overlay) Run() error {
	if err := o.engine.Run(); err != nil {
		return o.mapClosed(err)
	}
	return nil
}

// HandleIncoming 处理入站连接
//
// 已满或节点被阻止时关闭连接并返回 ErrCapacityReached / ErrPeerBlocked。
func (o *Overlay) HandleIncoming(id PeerID, conn Connection) error {
	if err := o.engine.HandleIncoming(id, conn); err != nil {
		return o.mapClosed(err)
	}
	return nil
}

func (o *Overlay) mapClosed(err error) error {
	if errors.Is(err, topology.ErrEngineClosed) {
		return ErrOverlayClosed
	}
	return err
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询
// ════════════════════════════════════════════════════════════════════════════

// Self 返回自身 ID
func (o *Overlay) Self() PeerID {
	return o.self.Clone()
}

// Config 返回生效配置的副本
func (o *Overlay) Config() *config.Config {
	return o.cfg.Clone()
}

// ConnectedPeers 返回当前已连接节点
func (o *Overlay) ConnectedPeers() []PeerID {
	return o.engine.ConnectedPeers()
}

// HasFarConnection 是否存在活跃的远端连接
func (o *Overlay) HasFarConnection() bool {
	return o.engine.HasFarConnection()
}

// FarPeer 返回远端连接对应的节点，没有时返回 nil
func (o *Overlay) FarPeer() PeerID {
	return o.engine.FarPeer()
}

// ConnectionCount 返回已连接节点数
func (o *Overlay) ConnectionCount() int {
	return o.engine.Len()
}

// Snapshot 返回当前拓扑快照
func (o *Overlay) Snapshot() *TopologySnapshot {
	return o.engine.Snapshot()
}

// CycleStats 返回运行周期统计
func (o *Overlay) CycleStats() CycleStats {
	return o.engine.CycleStats()
}

// ════════════════════════════════════════════════════════════════════════════
//                              门控与事件
// ════════════════════════════════════════════════════════════════════════════

// BlockPeer 阻止节点：不再拨号，也不接受其入站连接
//
// 已建立的连接不受影响。
func (o *Overlay) BlockPeer(id PeerID) {
	o.gater.BlockPeer(id)
}

// UnblockPeer 解除阻止
func (o *Overlay) UnblockPeer(id PeerID) {
	o.gater.UnblockPeer(id)
}

// IsBlocked 节点是否被阻止
func (o *Overlay) IsBlocked(id PeerID) bool {
	return o.gater.IsBlocked(id)
}

// Subscribe 订阅事件
//
//	sub, err := overlay.Subscribe(new(mmst.EvtNoPeersReachable))
func (o *Overlay) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (Subscription, error) {
	return o.bus.Subscribe(eventType, opts...)
}
