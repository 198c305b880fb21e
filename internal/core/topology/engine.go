package topology

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-mmst/internal/core/connmgr"
	"github.com/dep2p/go-mmst/internal/core/metrics"
	"github.com/dep2p/go-mmst/internal/core/sampler"
	"github.com/dep2p/go-mmst/internal/core/scheduler"
	"github.com/dep2p/go-mmst/internal/util/randutil"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/lib/log"
	"github.com/dep2p/go-mmst/pkg/types"
)

var logger = log.Logger("core/topology")

// 确保实现了接口
var (
	_ pkgif.Topology = (*Engine)(nil)
	_ metrics.Source = (*Engine)(nil)
)

// Engine 拓扑维护引擎
type Engine struct {
	self types.PeerID
	cfg  Config

	lookup    pkgif.Lookup
	connector pkgif.Connector
	gater     pkgif.ConnGater
	bus       pkgif.EventBus
	emitter   pkgif.Emitter

	clock    clock.Clock
	rng      randutil.Rand
	reporter metrics.Reporter
	counter  *metrics.CycleCounter

	sampler   *sampler.Sampler
	registry  *connmgr.Registry
	sched     *scheduler.Scheduler
	collector *metrics.TopologyCollector

	snapshotInterval time.Duration

	started   atomic.Bool
	destroyed atomic.Bool
	closeOnce sync.Once
}

// Option 引擎选项
type Option func(*Engine)

// WithClock 设置时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRand 设置随机源
func WithRand(r randutil.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithGater 设置连接门控
//
// 被阻止的节点既不会被拨号，也不会被接受入站连接。
func WithGater(g pkgif.ConnGater) Option {
	return func(e *Engine) {
		e.gater = g
	}
}

// WithEventBus 设置事件总线，用于发出 EvtNoPeersReachable
func WithEventBus(bus pkgif.EventBus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithReporter 设置指标上报器
func WithReporter(r metrics.Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithSnapshotInterval 设置拓扑快照日志间隔，0 表示不输出
func WithSnapshotInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.snapshotInterval = d
	}
}

// New 创建并启动引擎
//
// 构造完成即排入第一个运行周期。
func New(self types.PeerID, cfg Config, lookup pkgif.Lookup, connector pkgif.Connector, opts ...Option) (*Engine, error) {
	e, err := newEngine(self, cfg, lookup, connector, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Start(context.Background()); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// newEngine 创建引擎但不启动
func newEngine(self types.PeerID, cfg Config, lookup pkgif.Lookup, connector pkgif.Connector, opts ...Option) (*Engine, error) {
	if self.IsEmpty() {
		return nil, ErrEmptySelf
	}
	if lookup == nil {
		return nil, ErrNilLookup
	}
	if connector == nil {
		return nil, ErrNilConnector
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		self:      self.Clone(),
		cfg:       cfg,
		lookup:    lookup,
		connector: connector,
		clock:     clock.New(),
		reporter:  metrics.NopReporter{},
		counter:   metrics.NewCycleCounter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.NewRandom()
	}
	e.reporter = metrics.Multi(e.counter, e.reporter)

	var err error
	e.sampler, err = sampler.New(e.self, cfg.samplerConfig(),
		sampler.WithClock(e.clock),
		sampler.WithRand(e.rng))
	if err != nil {
		return nil, err
	}

	e.sched, err = scheduler.New(cfg.schedulerConfig(),
		scheduler.WithClock(e.clock),
		scheduler.WithOnDone(func(o scheduler.Outcome) {
			e.reporter.CycleFinished(o.String())
		}))
	if err != nil {
		return nil, err
	}

	regOpts := []connmgr.RegistryOption{
		connmgr.WithTrigger(e.trigger),
		connmgr.WithOnChange(e.reporter.PeersChanged),
	}
	if e.gater != nil {
		regOpts = append(regOpts, connmgr.WithGater(e.gater))
	}
	e.registry, err = connmgr.NewRegistry(cfg.registryConfig(), regOpts...)
	if err != nil {
		_ = e.sched.Close()
		return nil, err
	}

	if e.bus != nil {
		e.emitter, err = e.bus.Emitter(new(types.EvtNoPeersReachable))
		if err != nil {
			_ = e.sched.Close()
			_ = e.registry.Close()
			return nil, err
		}
	}

	e.collector = metrics.NewTopologyCollector(e, e.clock)
	return e, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动调度并排入第一个运行周期
//
// 重复调用无副作用。
func (e *Engine) Start(ctx context.Context) error {
	if e.destroyed.Load() {
		return ErrEngineClosed
	}
	if !e.started.CompareAndSwap(false, true) {
		return nil
	}

	if err := e.sched.Start(ctx); err != nil {
		return err
	}
	if e.snapshotInterval > 0 {
		e.collector.Start(e.snapshotInterval)
	}

	logger.Info("拓扑引擎已启动",
		"self", e.self.ShortString(),
		"sampleSize", e.cfg.SampleSize,
		"percentFar", e.cfg.PercentFar,
		"maxPeers", e.cfg.MaxPeers,
		"lookupTimeout", e.cfg.LookupTimeout,
		"queueTimeout", e.cfg.EffectiveQueueTimeout())
	return e.Run()
}

// Close 销毁引擎
//
// 立即生效且不可逆：排队中的周期被丢弃，进行中的周期在下一个检查点退出，
// 之后的 Run 与 HandleIncoming 都返回 ErrEngineClosed。已建立的连接保持不变。
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.destroyed.Store(true)

		_ = e.sched.Close()
		_ = e.registry.Close()
		e.collector.Stop()
		if e.emitter != nil {
			_ = e.emitter.Close()
		}

		logger.Info("拓扑引擎已销毁", "connected", e.registry.Len())
	})
	return nil
}

// ============================================================================
//                              公共操作
// ============================================================================

// Run 请求一次运行周期
//
// 周期被排队执行，Run 本身不阻塞。
func (e *Engine) Run() error {
	if e.destroyed.Load() {
		return ErrEngineClosed
	}
	if err := e.sched.Enqueue(e.runCycle); err != nil {
		if e.destroyed.Load() {
			return ErrEngineClosed
		}
		return err
	}
	return nil
}

// HandleIncoming 处理入站连接
//
// 已满、节点被阻止或已连接时关闭连接并返回错误。接受的连接关闭时
// 只有在集合变空的情况下才会触发新的周期。
func (e *Engine) HandleIncoming(id types.PeerID, conn pkgif.Connection) error {
	if conn == nil {
		return connmgr.ErrNilConnection
	}
	if e.destroyed.Load() {
		_ = conn.Close()
		e.reporter.IncomingRejected(metrics.ReasonClosed)
		return ErrEngineClosed
	}

	err := e.registry.HandleIncoming(id, conn)
	switch err {
	case nil:
		logger.Debug("接受入站连接", "peer", id.ShortString(), "size", e.registry.Len())
	case connmgr.ErrCapacityReached:
		e.reporter.IncomingRejected(metrics.ReasonCapacity)
	case connmgr.ErrPeerBlocked:
		e.reporter.IncomingRejected(metrics.ReasonBlocked)
	case connmgr.ErrAlreadyConnected:
		e.reporter.IncomingRejected(metrics.ReasonDup)
	case connmgr.ErrRegistryClosed:
		e.reporter.IncomingRejected(metrics.ReasonClosed)
		return ErrEngineClosed
	}
	return err
}

// ConnectedPeers 返回当前已连接节点
func (e *Engine) ConnectedPeers() []types.PeerID {
	return e.registry.Peers()
}

// HasFarConnection 是否存在活跃的远端连接
func (e *Engine) HasFarConnection() bool {
	return e.registry.HasFar()
}

// FarPeer 返回远端连接对应的节点，没有时返回 nil
func (e *Engine) FarPeer() types.PeerID {
	return e.registry.FarPeer()
}

// Len 返回已连接节点数
func (e *Engine) Len() int {
	return e.registry.Len()
}

// MaxPeers 返回最大连接数
func (e *Engine) MaxPeers() int {
	return e.cfg.MaxPeers
}

// Self 返回自身 ID
func (e *Engine) Self() types.PeerID {
	return e.self.Clone()
}

// Config 返回引擎配置
func (e *Engine) Config() Config {
	return e.cfg
}

// CycleStats 返回周期统计
func (e *Engine) CycleStats() metrics.CycleStats {
	return e.counter.Stats()
}

// Snapshot 返回当前拓扑快照
func (e *Engine) Snapshot() *metrics.TopologySnapshot {
	return e.collector.Collect()
}

// IsClosed 是否已销毁
func (e *Engine) IsClosed() bool {
	return e.destroyed.Load()
}

// trigger 由连接关闭通知调用
func (e *Engine) trigger() {
	if e.destroyed.Load() {
		return
	}
	if err := e.sched.Enqueue(e.runCycle); err != nil {
		logger.Debug("排入运行周期失败", "err", err)
	}
}
