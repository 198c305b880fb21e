package topology

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-mmst/internal/core/connmgr"
	"github.com/dep2p/go-mmst/internal/core/eventbus"
	"github.com/dep2p/go-mmst/pkg/types"
)

// ============================================================================
//                              构造
// ============================================================================

// TestNew_Validation 测试构造参数校验
func TestNew_Validation(t *testing.T) {
	lookup := newStaticLookup()
	conn := newFakeConnector()

	_, err := New(nil, testConfig, lookup, conn)
	assert.ErrorIs(t, err, ErrEmptySelf)

	_, err = New(self, testConfig, nil, conn)
	assert.ErrorIs(t, err, ErrNilLookup)

	_, err = New(self, testConfig, lookup, nil)
	assert.ErrorIs(t, err, ErrNilConnector)

	_, err = New(self, testConfig.WithSampleSize(0), lookup, conn)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Log("✅ 构造参数校验正确")
}

// TestNew_TimeoutOrder 周期超时不大于发现超时时构造失败
func TestNew_TimeoutOrder(t *testing.T) {
	lookup := newStaticLookup()
	conn := newFakeConnector()

	for _, q := range []time.Duration{time.Second, 500 * time.Millisecond} {
		cfg := DefaultConfig().WithLookupTimeout(time.Second).WithQueueTimeout(q)
		_, err := New(self, cfg, lookup, conn)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeoutOrder)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
	assert.Zero(t, lookup.calls.Load(), "构造失败时不应发现节点")

	cfg := DefaultConfig().WithLookupTimeout(time.Second)
	assert.Equal(t, 3*time.Second, cfg.EffectiveQueueTimeout())

	t.Log("✅ 超时顺序在构造时校验")
}

// ============================================================================
//                              场景
// ============================================================================

// TestScenario_SinglePeer 只有一个可发现节点
func TestScenario_SinglePeer(t *testing.T) {
	p := pid(0x07)
	lookup := newStaticLookup(p)
	conn := newFakeConnector()

	// r = 0 进入远端阶段，唯一候选已连接
	e := newTestEngine(t, testConfig, lookup, conn, WithRand(fixedRand(0)))
	waitCycles(t, e, 1)

	assert.Equal(t, []string{p.Key()}, keys(e.ConnectedPeers()))
	assert.False(t, e.HasFarConnection())
	assert.Len(t, conn.dials(), 1)
	assert.Zero(t, e.CycleStats().NoPeersReachable)

	t.Log("✅ 单节点场景正确")
}

// TestScenario_NoPeers 没有可发现节点时发出事件
func TestScenario_NoPeers(t *testing.T) {
	bus := eventbus.NewBus()
	defer bus.Close()
	sub, err := bus.Subscribe(new(types.EvtNoPeersReachable))
	require.NoError(t, err)
	defer sub.Close()

	e := newTestEngine(t, testConfig, newStaticLookup(), newFakeConnector(), WithEventBus(bus))

	select {
	case ev := <-sub.Out():
		evt, ok := ev.(types.EvtNoPeersReachable)
		require.True(t, ok)
		assert.Equal(t, types.EventTypeNoPeersReachable, evt.Type())
		assert.Zero(t, evt.SampleSize)
		assert.Zero(t, evt.Attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("未收到 EvtNoPeersReachable")
	}

	waitCycles(t, e, 1)
	assert.Zero(t, e.Len())
	assert.Equal(t, uint64(1), e.CycleStats().NoPeersReachable)

	t.Log("✅ 无节点场景发出事件")
}

// TestScenario_LookupNeverCompletes 发现源永不结束时按超时继续
func TestScenario_LookupNeverCompletes(t *testing.T) {
	p := pid(0x03)
	lookup := &countingLookup{fn: func(context.Context) (<-chan []types.PeerID, error) {
		ch := make(chan []types.PeerID, 1)
		ch <- []types.PeerID{p}
		return ch, nil
	}}
	conn := newFakeConnector()

	mock := clock.NewMock()
	e := newTestEngine(t, testConfig, lookup, conn, WithClock(mock))

	require.Eventually(t, func() bool {
		mock.Add(50 * time.Millisecond)
		return e.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{p.Key()}, keys(e.ConnectedPeers()))

	t.Log("✅ 发现超时后使用已收集的节点")
}

// TestScenario_IncomingOverCapacity 已满时第 5 个入站连接被关闭
func TestScenario_IncomingOverCapacity(t *testing.T) {
	e := newIdleEngine(t, testConfig.WithMaxPeers(4), newStaticLookup(), newFakeConnector())

	for i := 1; i <= 4; i++ {
		require.NoError(t, e.HandleIncoming(pid(byte(i)), newFakeConn()))
		assert.LessOrEqual(t, e.Len(), 4)
	}

	fifth := newFakeConn()
	err := e.HandleIncoming(pid(0x05), fifth)
	assert.ErrorIs(t, err, ErrCapacityReached)
	assert.True(t, fifth.closed())
	assert.Equal(t, 4, e.Len())
	assert.Equal(t, uint64(1), e.CycleStats().IncomingRejected)
	assert.Zero(t, e.sched.Stats().Enqueued, "拒绝不应触发周期")

	t.Log("✅ 入站准入遵守容量上限")
}

// TestScenario_ReconnectTriggersOneCycle 可重连连接关闭后恰好排入一个周期
func TestScenario_ReconnectTriggersOneCycle(t *testing.T) {
	p := pid(0x01)
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(p), conn)
	waitCycles(t, e, 1)
	require.Equal(t, uint64(1), e.sched.Stats().Enqueued)

	first := conn.conn(p)
	require.NotNil(t, first)
	_ = first.Close()

	waitCycles(t, e, 2)
	assert.Equal(t, uint64(2), e.sched.Stats().Enqueued)
	assert.Never(t, func() bool {
		return e.sched.Stats().Enqueued > 2
	}, 100*time.Millisecond, 10*time.Millisecond)

	// 新周期重新连接
	assert.Equal(t, 1, e.Len())
	assert.NotSame(t, first, conn.conn(p))

	t.Log("✅ 可重连连接关闭触发一个周期")
}

// ============================================================================
//                              近邻阶段
// ============================================================================

// TestNearConnect_ClosestFirst 只连接最近的一个节点
func TestNearConnect_ClosestFirst(t *testing.T) {
	all := peers(6)
	// 打乱输入顺序
	lookup := newStaticLookup(all[4], all[1], all[5], all[0], all[3], all[2])
	conn := newFakeConnector()

	e := newTestEngine(t, testConfig, lookup, conn)
	waitCycles(t, e, 1)

	assert.Equal(t, []string{all[0].Key()}, keys(conn.dials()))
	assert.Equal(t, []string{all[0].Key()}, keys(e.ConnectedPeers()))
	assert.Equal(t, uint64(1), e.CycleStats().NearConnects)

	t.Log("✅ 每个周期只建立一条近邻连接")
}

// TestNearConnect_SkipsFailures 失败的候选被跳过
func TestNearConnect_SkipsFailures(t *testing.T) {
	all := peers(5)
	conn := newFakeConnector(all[0], all[1])

	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn)
	waitCycles(t, e, 1)

	assert.Equal(t, keys(all[:3]), keys(conn.dials()))
	assert.Equal(t, []string{all[2].Key()}, keys(e.ConnectedPeers()))
	assert.Equal(t, uint64(2), e.CycleStats().ConnectFailures)
	assert.Zero(t, e.CycleStats().NoPeersReachable)

	t.Log("✅ 拨号失败不影响后续候选")
}

// TestNearConnect_SkipsConnected 已连接的候选不再拨号
func TestNearConnect_SkipsConnected(t *testing.T) {
	all := peers(3)
	conn := newFakeConnector()
	e := newIdleEngine(t, testConfig, newStaticLookup(all...), conn)

	require.NoError(t, e.HandleIncoming(all[0], newFakeConn()))
	require.NoError(t, e.Start(context.Background()))
	waitCycles(t, e, 1)

	assert.Equal(t, []string{all[1].Key()}, keys(conn.dials()))
	assert.Equal(t, 2, e.Len())

	t.Log("✅ 跳过已连接节点")
}

// TestNearConnect_AllFail 全部失败时发出事件，集合不变
func TestNearConnect_AllFail(t *testing.T) {
	all := peers(3)
	bus := eventbus.NewBus()
	defer bus.Close()
	sub, err := bus.Subscribe(new(types.EvtNoPeersReachable))
	require.NoError(t, err)
	defer sub.Close()

	conn := newFakeConnector(all...)
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithEventBus(bus), WithRand(fixedRand(0)))

	select {
	case ev := <-sub.Out():
		evt := ev.(types.EvtNoPeersReachable)
		assert.Equal(t, 3, evt.SampleSize)
		assert.Equal(t, 3, evt.Attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("未收到 EvtNoPeersReachable")
	}

	waitCycles(t, e, 1)
	assert.Zero(t, e.Len())
	// 近邻阶段失败后不进入远端阶段
	assert.Len(t, conn.dials(), 3)

	t.Log("✅ 近邻阶段全部失败发出事件")
}

// TestNearConnect_Blocked 被阻止的节点不拨号
func TestNearConnect_Blocked(t *testing.T) {
	all := peers(3)
	gater := connmgr.NewGater()
	gater.BlockPeer(all[0])

	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithGater(gater))
	waitCycles(t, e, 1)

	assert.Equal(t, []string{all[1].Key()}, keys(conn.dials()))

	in := newFakeConn()
	assert.ErrorIs(t, e.HandleIncoming(all[0], in), ErrPeerBlocked)
	assert.True(t, in.closed())

	t.Log("✅ 门控生效")
}

// TestNearConnect_FullAfterDial 拨号期间被入站连接占满
func TestNearConnect_FullAfterDial(t *testing.T) {
	all := peers(3)
	conn := newFakeConnector()
	e := newIdleEngine(t, testConfig.WithMaxPeers(1), newStaticLookup(all...), conn)

	conn.setHook(func(_ context.Context, _ types.PeerID) error {
		_ = e.HandleIncoming(pid(0x09), newFakeConn())
		return nil
	})
	require.NoError(t, e.Start(context.Background()))
	waitCycles(t, e, 1)

	assert.Equal(t, []string{pid(0x09).Key()}, keys(e.ConnectedPeers()))
	dialed := conn.conn(all[0])
	require.NotNil(t, dialed)
	assert.True(t, dialed.closed(), "多余的出站连接应被关闭")
	assert.Len(t, conn.dials(), 1)

	t.Log("✅ 已满时关闭新建连接")
}

// ============================================================================
//                              远端阶段
// ============================================================================

// TestFarConnect 抽签通过时连接最远节点
func TestFarConnect(t *testing.T) {
	all := peers(6)
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithRand(fixedRand(0.1)))
	waitCycles(t, e, 1)

	assert.Equal(t, keys([]types.PeerID{all[0], all[5]}), keys(conn.dials()))
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.HasFarConnection())
	assert.True(t, all[5].Equal(e.FarPeer()))
	assert.Equal(t, uint64(1), e.CycleStats().FarConnects)

	t.Log("✅ 远端连接建立")
}

// TestFarConnect_SkipsFailures 远端阶段失败静默结束
func TestFarConnect_SkipsFailures(t *testing.T) {
	all := peers(3)
	conn := newFakeConnector(all[1], all[2])
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithRand(fixedRand(0.1)))
	waitCycles(t, e, 1)

	// 近邻 1，远端 3、2 失败，1 已连接
	assert.Equal(t, keys([]types.PeerID{all[0], all[2], all[1]}), keys(conn.dials()))
	assert.False(t, e.HasFarConnection())
	assert.Zero(t, e.CycleStats().NoPeersReachable)

	t.Log("✅ 远端阶段失败不发出事件")
}

// TestFarDecision_DrawAbove 抽签未通过
func TestFarDecision_DrawAbove(t *testing.T) {
	all := peers(6)
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithRand(fixedRand(0.34)))
	waitCycles(t, e, 1)

	assert.Len(t, conn.dials(), 1)
	assert.False(t, e.HasFarConnection())

	t.Log("✅ r > percentFar 时不建立远端连接")
}

// TestFarDecision_AlreadyFar 同一时刻最多一条远端连接
func TestFarDecision_AlreadyFar(t *testing.T) {
	all := peers(6)
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig.WithMaxPeers(6), newStaticLookup(all...), conn, WithRand(fixedRand(0)))
	waitCycles(t, e, 1)
	require.True(t, e.HasFarConnection())

	require.NoError(t, e.Run())
	waitCycles(t, e, 2)

	assert.Equal(t, keys([]types.PeerID{all[0], all[5], all[1]}), keys(conn.dials()))
	assert.True(t, all[5].Equal(e.FarPeer()))
	assert.Equal(t, uint64(1), e.CycleStats().FarConnects)

	t.Log("✅ 已有远端连接时不再建立")
}

// TestFarDecision_Full 近邻连接占满后不建立远端连接
func TestFarDecision_Full(t *testing.T) {
	all := peers(4)
	conn := newFakeConnector()
	e := newIdleEngine(t, testConfig.WithMaxPeers(2), newStaticLookup(all...), conn, WithRand(fixedRand(0)))

	require.NoError(t, e.HandleIncoming(pid(0x09), newFakeConn()))
	require.NoError(t, e.Start(context.Background()))
	waitCycles(t, e, 1)

	assert.Equal(t, []string{all[0].Key()}, keys(conn.dials()))
	assert.False(t, e.HasFarConnection())

	t.Log("✅ 已满时跳过远端阶段")
}

// TestFarClose 远端连接关闭后清除标记并触发周期
func TestFarClose(t *testing.T) {
	all := peers(6)
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithRand(fixedRand(0.1)))
	waitCycles(t, e, 1)
	require.True(t, e.HasFarConnection())

	_ = conn.conn(all[5]).Close()
	waitCycles(t, e, 2)

	// 新周期：近邻 2，远端重新连接 6
	assert.True(t, e.HasFarConnection())
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, uint64(2), e.CycleStats().FarConnects)

	t.Log("✅ 远端连接关闭后重新评估")
}

// ============================================================================
//                              Guard
// ============================================================================

// TestGuard_Full 已满时不抽样
func TestGuard_Full(t *testing.T) {
	lookup := newStaticLookup(peers(3)...)
	conn := newFakeConnector()
	e := newIdleEngine(t, testConfig.WithMaxPeers(2), lookup, conn)

	require.NoError(t, e.HandleIncoming(pid(0x08), newFakeConn()))
	require.NoError(t, e.HandleIncoming(pid(0x09), newFakeConn()))
	require.NoError(t, e.Start(context.Background()))
	waitCycles(t, e, 1)

	assert.Zero(t, lookup.calls.Load())
	assert.Empty(t, conn.dials())

	t.Log("✅ 已满时周期直接结束")
}

// TestIncomingClose_Trigger 入站连接关闭只在集合变空时触发
func TestIncomingClose_Trigger(t *testing.T) {
	e := newIdleEngine(t, testConfig, newStaticLookup(), newFakeConnector())
	require.NoError(t, e.sched.Start(context.Background()))

	a, b := newFakeConn(), newFakeConn()
	require.NoError(t, e.HandleIncoming(pid(0x01), a))
	require.NoError(t, e.HandleIncoming(pid(0x02), b))

	_ = a.Close()
	require.Eventually(t, func() bool { return e.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool {
		return e.sched.Stats().Enqueued > 0
	}, 50*time.Millisecond, 5*time.Millisecond)

	_ = b.Close()
	require.Eventually(t, func() bool {
		return e.sched.Stats().Enqueued == 1
	}, time.Second, 5*time.Millisecond)

	t.Log("✅ 集合变空时触发周期")
}

// ============================================================================
//                              调度
// ============================================================================

// TestSingleFlight 同一时刻只有一个周期在拨号
func TestSingleFlight(t *testing.T) {
	var inflight, maxInflight atomic.Int32
	conn := newFakeConnector(peers(8)...)
	conn.setHook(func(context.Context, types.PeerID) error {
		n := inflight.Add(1)
		for {
			m := maxInflight.Load()
			if n <= m || maxInflight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inflight.Add(-1)
		return nil
	})

	e := newTestEngine(t, testConfig, newStaticLookup(peers(8)...), conn)
	for i := 0; i < 4; i++ {
		require.NoError(t, e.Run())
	}
	waitCycles(t, e, 5)

	assert.Equal(t, int32(1), maxInflight.Load())
	assert.Len(t, conn.dials(), 5*8)

	t.Log("✅ 周期串行执行")
}

// TestCycleTimeout 拨号卡住时周期被放弃，后续周期不受影响
func TestCycleTimeout(t *testing.T) {
	all := peers(3)
	var stall atomic.Bool
	stall.Store(true)

	conn := newFakeConnector()
	conn.setHook(func(ctx context.Context, _ types.PeerID) error {
		if stall.Load() {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})

	mock := clock.NewMock()
	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn, WithClock(mock))

	require.Eventually(t, func() bool {
		mock.Add(500 * time.Millisecond)
		return e.CycleStats().Abandoned == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, e.Len())

	stall.Store(false)
	require.NoError(t, e.Run())
	waitCycles(t, e, 1)
	assert.Equal(t, 1, e.Len())

	t.Log("✅ 超时周期被放弃")
}

// ============================================================================
//                              销毁
// ============================================================================

// TestDestroy_MidConnect 拨号期间销毁，结果被丢弃且不再拨号
func TestDestroy_MidConnect(t *testing.T) {
	all := peers(4)
	dialing := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once
	conn := newFakeConnector()
	conn.setHook(func(context.Context, types.PeerID) error {
		once.Do(func() { close(dialing) })
		<-release
		return nil
	})

	e := newTestEngine(t, testConfig, newStaticLookup(all...), conn)
	<-dialing
	require.NoError(t, e.Close())
	close(release)

	assert.Never(t, func() bool {
		return len(conn.dials()) > 1 || e.Len() > 0
	}, 100*time.Millisecond, 5*time.Millisecond)

	late := conn.conn(all[0])
	require.NotNil(t, late)
	assert.False(t, late.closed(), "迟到的连接归嵌入方处理")

	assert.ErrorIs(t, e.Run(), ErrEngineClosed)
	assert.ErrorIs(t, e.Start(context.Background()), ErrEngineClosed)

	t.Log("✅ 销毁阻止后续拨号")
}

// TestDestroy_MidLookup 抽样期间销毁
func TestDestroy_MidLookup(t *testing.T) {
	started := make(chan struct{})
	lookup := &countingLookup{fn: func(context.Context) (<-chan []types.PeerID, error) {
		close(started)
		return make(chan []types.PeerID), nil
	}}
	conn := newFakeConnector()

	e := newTestEngine(t, DefaultConfig().WithLookupTimeout(50*time.Millisecond), lookup, conn)
	<-started
	require.NoError(t, e.Close())

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, conn.dials())
	assert.Equal(t, int32(1), lookup.calls.Load())

	t.Log("✅ 抽样期间销毁后不拨号")
}

// TestDestroy_KeepsConnections 销毁不关闭已有连接
func TestDestroy_KeepsConnections(t *testing.T) {
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig, newStaticLookup(pid(0x01)), conn)
	waitCycles(t, e, 1)

	in := newFakeConn()
	require.NoError(t, e.HandleIncoming(pid(0x02), in))

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.True(t, e.IsClosed())

	assert.False(t, conn.conn(pid(0x01)).closed())
	assert.False(t, in.closed())

	// 关闭通知不再触发周期
	enq := e.sched.Stats().Enqueued
	_ = conn.conn(pid(0x01)).Close()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, enq, e.sched.Stats().Enqueued)

	late := newFakeConn()
	assert.ErrorIs(t, e.HandleIncoming(pid(0x03), late), ErrEngineClosed)
	assert.True(t, late.closed())

	t.Log("✅ 销毁只抑制周期")
}

// destroyingGater 拨号检查时标记引擎已销毁
type destroyingGater struct {
	*connmgr.Gater
	e *Engine
}

func (g *destroyingGater) InterceptPeerDial(id types.PeerID) bool {
	g.e.destroyed.Store(true)
	return false
}

// TestDestroy_NoSignalAfterSkip 候选全部跳过期间被销毁时不发出事件
func TestDestroy_NoSignalAfterSkip(t *testing.T) {
	bus := eventbus.NewBus()
	defer bus.Close()
	sub, err := bus.Subscribe(new(types.EvtNoPeersReachable))
	require.NoError(t, err)
	defer sub.Close()

	gater := &destroyingGater{Gater: connmgr.NewGater()}
	conn := newFakeConnector()
	e := newIdleEngine(t, testConfig, newStaticLookup(pid(0x01)), conn,
		WithGater(gater), WithEventBus(bus))
	gater.e = e

	require.NoError(t, e.Start(context.Background()))
	waitCycles(t, e, 1)

	assert.Empty(t, conn.dials())
	assert.Zero(t, e.CycleStats().NoPeersReachable)
	select {
	case <-sub.Out():
		t.Fatal("销毁后不应发出 EvtNoPeersReachable")
	case <-time.After(50 * time.Millisecond):
	}

	t.Log("✅ 销毁后不发出事件")
}

// ============================================================================
//                              并发
// ============================================================================

// TestConcurrentIncoming 入站与周期并发时不超过容量
func TestConcurrentIncoming(t *testing.T) {
	const maxPeers = 4
	conn := newFakeConnector()
	e := newTestEngine(t, testConfig.WithMaxPeers(maxPeers), newStaticLookup(peers(16)...), conn, WithRand(fixedRand(0)))

	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if e.HandleIncoming(pid(0x20+byte(i)), newFakeConn()) == nil {
				accepted.Add(1)
			}
			assert.LessOrEqual(t, e.Len(), maxPeers)
		}(i)
		if i%8 == 0 {
			_ = e.Run()
		}
	}
	wg.Wait()
	waitCycles(t, e, 1)

	assert.LessOrEqual(t, e.Len(), maxPeers)
	assert.LessOrEqual(t, int(accepted.Load()), maxPeers)

	t.Log("✅ 并发下容量不变式成立")
}

// ============================================================================
//                              快照
// ============================================================================

// TestSnapshot 测试拓扑快照
func TestSnapshot(t *testing.T) {
	all := peers(4)
	e := newTestEngine(t, testConfig, newStaticLookup(all...), newFakeConnector(), WithRand(fixedRand(0)))
	waitCycles(t, e, 1)

	snap := e.Snapshot()
	assert.Equal(t, 2, snap.ConnectedCount())
	assert.True(t, snap.HasFar())
	assert.Equal(t, all[3].String(), snap.FarPeer)
	assert.Equal(t, 4, snap.MaxPeers)
	assert.Equal(t, uint64(1), snap.Cycles.Completed)

	t.Log("✅ 快照正确")
}

// countingLookup 函数形式的发现源，记录调用次数
type countingLookup struct {
	fn    func(ctx context.Context) (<-chan []types.PeerID, error)
	calls atomic.Int32
}

func (l *countingLookup) Lookup(ctx context.Context) (<-chan []types.PeerID, error) {
	l.calls.Add(1)
	return l.fn(ctx)
}
