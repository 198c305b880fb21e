package connmgr

import (
	"sync"

	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/lib/log"
	"github.com/dep2p/go-mmst/pkg/types"
)

var logger = log.Logger("core/connmgr")

// entry 已登记的连接
type entry struct {
	id                types.PeerID
	conn              pkgif.Connection
	reconnectEligible bool
}

// Registry 已连接集合
type Registry struct {
	cfg   Config
	gater pkgif.ConnGater

	// trigger 请求新的运行周期
	trigger func()
	// onChange 集合或远端标记变化后调用
	onChange func(size int, hasFar bool)

	mu      sync.Mutex
	conns   map[string]*entry
	farKey  string
	closed  bool
	stop    chan struct{}
	watchWg sync.WaitGroup
}

var _ pkgif.ConnRegistry = (*Registry)(nil)

// RegistryOption 登记表选项
type RegistryOption func(*Registry)

// WithTrigger 设置触发新运行周期的回调
func WithTrigger(fn func()) RegistryOption {
	return func(r *Registry) {
		r.trigger = fn
	}
}

// WithGater 设置连接门控
func WithGater(g pkgif.ConnGater) RegistryOption {
	return func(r *Registry) {
		r.gater = g
	}
}

// WithOnChange 设置集合变化回调
//
// 回调在锁外调用，参数是变化发生后的快照。
func WithOnChange(fn func(size int, hasFar bool)) RegistryOption {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// NewRegistry 创建已连接集合
func NewRegistry(cfg Config, opts ...RegistryOption) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		cfg:   cfg,
		conns: make(map[string]*entry),
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ============================================================================
//                              写入
// ============================================================================

// TryAdd 在容量允许时登记连接
//
// 已登记的节点再次登记时替换连接、合并属性，集合大小不变。
// 远端标记只在当前没有远端连接时生效。
// 登记表关闭后总是返回 false。
func (r *Registry) TryAdd(id types.PeerID, conn pkgif.Connection, opts pkgif.AddOptions) bool {
	return r.add(id, conn, opts, true) == nil
}

// HandleIncoming 入站连接准入
//
// 被阻止、已满或节点已连接时关闭连接并返回错误，不登记也不触发运行周期。
// 接受的连接不可重连。
func (r *Registry) HandleIncoming(id types.PeerID, conn pkgif.Connection) error {
	if conn == nil {
		return ErrNilConnection
	}
	if id.IsEmpty() {
		_ = conn.Close()
		return types.ErrEmptyPeerID
	}

	if r.gater != nil && !r.gater.InterceptAccept(id) {
		_ = conn.Close()
		logger.Debug("拒绝被阻止节点的入站连接", "peer", id.ShortString())
		return ErrPeerBlocked
	}

	if err := r.add(id, conn, pkgif.AddOptions{}, false); err != nil {
		_ = conn.Close()
		logger.Debug("拒绝入站连接", "peer", id.ShortString(), "max", r.cfg.MaxPeers, "err", err)
		return err
	}
	return nil
}

// add 登记连接，replace 为 false 时已登记的节点返回 ErrAlreadyConnected
func (r *Registry) add(id types.PeerID, conn pkgif.Connection, opts pkgif.AddOptions, replace bool) error {
	if conn == nil {
		return ErrNilConnection
	}
	if id.IsEmpty() {
		return types.ErrEmptyPeerID
	}
	key := id.Key()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}

	old, exists := r.conns[key]
	switch {
	case !exists && len(r.conns) >= r.cfg.MaxPeers:
		r.mu.Unlock()
		return ErrCapacityReached
	case exists && !replace:
		r.mu.Unlock()
		return ErrAlreadyConnected
	}

	e := &entry{
		id:                id.Clone(),
		conn:              conn,
		reconnectEligible: opts.ReconnectEligible,
	}
	if exists {
		e.reconnectEligible = e.reconnectEligible || old.reconnectEligible
	}
	if opts.Far && r.farKey == "" {
		r.farKey = key
	}
	r.conns[key] = e
	size, hasFar := len(r.conns), r.farKey != ""

	r.watchWg.Add(1)
	r.mu.Unlock()

	go r.watch(key, e)

	logger.Debug("登记连接",
		"peer", id.ShortString(),
		"reconnect", e.reconnectEligible,
		"far", opts.Far,
		"replaced", exists,
		"size", size)
	r.changed(size, hasFar)
	return nil
}

// watch 等待连接关闭
func (r *Registry) watch(key string, e *entry) {
	defer r.watchWg.Done()

	select {
	case <-e.conn.Done():
	case <-r.stop:
		return
	}

	r.mu.Lock()
	if r.conns[key] != e {
		// 已被替换
		r.mu.Unlock()
		return
	}
	delete(r.conns, key)
	wasFar := r.farKey == key
	if wasFar {
		r.farKey = ""
	}
	size, hasFar := len(r.conns), r.farKey != ""
	r.mu.Unlock()

	logger.Debug("连接关闭",
		"peer", e.id.ShortString(),
		"far", wasFar,
		"size", size)
	r.changed(size, hasFar)

	if (e.reconnectEligible || size == 0) && r.trigger != nil {
		r.trigger()
	}
}

func (r *Registry) changed(size int, hasFar bool) {
	if r.onChange != nil {
		r.onChange(size, hasFar)
	}
}

// ============================================================================
//                              读取
// ============================================================================

// Has 检查节点是否已连接
func (r *Registry) Has(id types.PeerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.conns[id.Key()]
	return ok
}

// Len 返回已连接节点数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.conns)
}

// Full 是否已达容量上限
func (r *Registry) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.conns) >= r.cfg.MaxPeers
}

// HasFar 是否存在远端连接
func (r *Registry) HasFar() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.farKey != ""
}

// FarPeer 返回远端连接的节点，不存在时返回 nil
func (r *Registry) FarPeer() types.PeerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.conns[r.farKey]; ok && r.farKey != "" {
		return e.id.Clone()
	}
	return nil
}

// Peers 返回已连接节点列表
func (r *Registry) Peers() []types.PeerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	peers := make([]types.PeerID, 0, len(r.conns))
	for _, e := range r.conns {
		peers = append(peers, e.id.Clone())
	}
	return peers
}

// MaxPeers 返回容量上限
func (r *Registry) MaxPeers() int {
	return r.cfg.MaxPeers
}

// ============================================================================
//                              生命周期
// ============================================================================

// Close 停止所有关闭监听
//
// 已登记的连接不会被关闭，之后的 TryAdd 总是失败。
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.stop)
	r.mu.Unlock()

	r.watchWg.Wait()
	return nil
}
