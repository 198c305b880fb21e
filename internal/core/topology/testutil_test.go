package topology

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/types"
)

var (
	self       = pid(0x00)
	errDial    = errors.New("dial refused")
	testConfig = DefaultConfig().WithLookupTimeout(200 * time.Millisecond)
)

func pid(b ...byte) types.PeerID {
	return types.PeerID(b)
}

// peers 返回 ID 为 1..n 的节点，与 self 的距离依次增大
func peers(n int) []types.PeerID {
	out := make([]types.PeerID, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, pid(byte(i)))
	}
	return out
}

// ============================================================================
//                              连接
// ============================================================================

type fakeConn struct {
	done   chan struct{}
	once   sync.Once
	closes atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// ============================================================================
//                              发现
// ============================================================================

// staticLookup 每次发现都产出同一批节点后结束
type staticLookup struct {
	peers []types.PeerID
	calls atomic.Int32
}

func newStaticLookup(ps ...types.PeerID) *staticLookup {
	return &staticLookup{peers: ps}
}

func (l *staticLookup) Lookup(context.Context) (<-chan []types.PeerID, error) {
	l.calls.Add(1)
	ch := make(chan []types.PeerID, 1)
	if len(l.peers) > 0 {
		ch <- l.peers
	}
	close(ch)
	return ch, nil
}

// ============================================================================
//                              拨号
// ============================================================================

// fakeConnector 记录拨号顺序，按配置成功或失败
type fakeConnector struct {
	mu     sync.Mutex
	fail   map[string]bool
	dialed []types.PeerID
	conns  map[string]*fakeConn

	// hook 在拨号返回前调用，返回非 nil 错误时本次拨号失败
	hook func(ctx context.Context, id types.PeerID) error
}

func newFakeConnector(failing ...types.PeerID) *fakeConnector {
	c := &fakeConnector{
		fail:  make(map[string]bool),
		conns: make(map[string]*fakeConn),
	}
	for _, id := range failing {
		c.fail[id.Key()] = true
	}
	return c
}

func (c *fakeConnector) Connect(ctx context.Context, id types.PeerID) (pkgif.Connection, error) {
	c.mu.Lock()
	c.dialed = append(c.dialed, id.Clone())
	fail := c.fail[id.Key()]
	hook := c.hook
	c.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, id); err != nil {
			return nil, err
		}
	}
	if fail {
		return nil, errDial
	}

	conn := newFakeConn()
	c.mu.Lock()
	c.conns[id.Key()] = conn
	c.mu.Unlock()
	return conn, nil
}

func (c *fakeConnector) setHook(fn func(ctx context.Context, id types.PeerID) error) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *fakeConnector) dials() []types.PeerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.PeerID(nil), c.dialed...)
}

func (c *fakeConnector) conn(id types.PeerID) *fakeConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conns[id.Key()]
}

// ============================================================================
//                              随机源
// ============================================================================

// fixedRand 固定的远端抽签结果，不打乱顺序
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func (fixedRand) Shuffle(int, func(i, j int)) {}

// ============================================================================
//                              引擎
// ============================================================================

// newTestEngine 创建并启动引擎，默认不建立远端连接
func newTestEngine(t *testing.T, cfg Config, lookup pkgif.Lookup, connector pkgif.Connector, opts ...Option) *Engine {
	t.Helper()
	e, err := New(self, cfg, lookup, connector, append([]Option{WithRand(fixedRand(0.9))}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// newIdleEngine 创建未启动的引擎
func newIdleEngine(t *testing.T, cfg Config, lookup pkgif.Lookup, connector pkgif.Connector, opts ...Option) *Engine {
	t.Helper()
	e, err := newEngine(self, cfg, lookup, connector, append([]Option{WithRand(fixedRand(0.9))}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// waitCycles 等待至少 n 个周期完成且队列为空
func waitCycles(t *testing.T, e *Engine, n uint64) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := e.sched.Stats()
		return e.CycleStats().Completed >= n && st.Pending == 0 && !st.Running
	}, 2*time.Second, 5*time.Millisecond)
}

func keys(ids []types.PeerID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Key())
	}
	return out
}
