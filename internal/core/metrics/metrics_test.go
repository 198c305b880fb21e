package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/pkg/types"
)

// TestPrometheusReporter 测试 Prometheus 指标导出
func TestPrometheusReporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPrometheusReporter(reg, "mmst")
	require.NoError(t, err)

	r.CycleStarted()
	r.CycleFinished("completed")
	r.CycleFinished("abandoned")
	r.ConnectAttempt(PhaseNear, ResultFailure)
	r.ConnectAttempt(PhaseNear, ResultSuccess)
	r.ConnectAttempt(PhaseFar, ResultSuccess)
	r.NoPeersReachable()
	r.IncomingRejected(ReasonCapacity)
	r.PeersChanged(3, true)
	r.SampleTaken(10)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cyclesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cycles.WithLabelValues("abandoned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.connectAttempts.WithLabelValues(PhaseNear, ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.noPeersReachable))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.incomingRejected.WithLabelValues(ReasonCapacity)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.connectedPeers))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.farConnection))

	r.PeersChanged(2, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.farConnection))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"mmst_cycles_started_total",
		"mmst_cycles_total",
		"mmst_connect_attempts_total",
		"mmst_no_peers_reachable_total",
		"mmst_incoming_rejected_total",
		"mmst_connected_peers",
		"mmst_far_connection",
		"mmst_sample_size",
	} {
		assert.True(t, names[name], "metric %q not found", name)
	}

	// 重复注册返回错误
	_, err = NewPrometheusReporter(reg, "mmst")
	assert.Error(t, err)

	t.Log("✅ Prometheus 指标测试通过")
}

// TestCycleCounter 测试进程内计数
func TestCycleCounter(t *testing.T) {
	c := NewCycleCounter()
	r := Multi(c, nil, NopReporter{})

	r.CycleStarted()
	r.CycleStarted()
	r.CycleFinished("completed")
	r.CycleFinished("abandoned")
	r.CycleFinished("stopped")
	r.ConnectAttempt(PhaseNear, ResultSuccess)
	r.ConnectAttempt(PhaseFar, ResultSuccess)
	r.ConnectAttempt(PhaseFar, ResultFailure)
	r.ConnectAttempt(PhaseNear, ResultDiscarded)
	r.NoPeersReachable()
	r.IncomingRejected(ReasonBlocked)

	assert.Equal(t, CycleStats{
		Started:          2,
		Completed:        1,
		Abandoned:        1,
		NoPeersReachable: 1,
		NearConnects:     1,
		FarConnects:      1,
		ConnectFailures:  1,
		IncomingRejected: 1,
	}, c.Stats())

	assert.Equal(t, NopReporter{}, Multi())
	assert.Same(t, c, Multi(c))

	t.Log("✅ 计数器测试通过")
}

// fakeSource 快照数据源
type fakeSource struct {
	peers []types.PeerID
	far   types.PeerID
}

func (s fakeSource) ConnectedPeers() []types.PeerID { return s.peers }
func (s fakeSource) FarPeer() types.PeerID          { return s.far }
func (s fakeSource) MaxPeers() int                  { return 4 }
func (s fakeSource) CycleStats() CycleStats         { return CycleStats{Started: 7} }

// TestTopologyCollector 测试快照收集
func TestTopologyCollector(t *testing.T) {
	mock := clock.NewMock()
	far := types.PeerID{0x02}
	c := NewTopologyCollector(fakeSource{
		peers: []types.PeerID{{0x01}, far},
		far:   far,
	}, mock)

	mock.Add(90 * time.Second)
	snap := c.Collect()

	assert.Equal(t, int64(90), snap.UptimeSeconds)
	assert.Equal(t, 2, snap.ConnectedCount())
	assert.True(t, snap.HasFar())
	assert.Equal(t, far.String(), snap.FarPeer)
	assert.Equal(t, 4, snap.MaxPeers)
	assert.Equal(t, uint64(7), snap.Cycles.Started)
	assert.Same(t, snap, c.GetLastSnapshot())

	data, err := snap.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"maxPeers":4`)

	empty := NewTopologyCollector(nil, nil).Collect()
	assert.Equal(t, 0, empty.ConnectedCount())
	assert.False(t, empty.HasFar())

	t.Log("✅ 快照收集测试通过")
}

// TestTopologyCollector_Periodic 测试周期性快照
func TestTopologyCollector_Periodic(t *testing.T) {
	mock := clock.NewMock()
	c := NewTopologyCollector(fakeSource{}, mock)

	c.Start(time.Minute)
	c.Start(time.Minute)
	defer c.Stop()

	require.Eventually(t, func() bool {
		mock.Add(time.Minute)
		return c.GetLastSnapshot() != nil
	}, time.Second, time.Millisecond)

	c.Stop()
	c.Stop()

	t.Log("✅ 周期快照测试通过")
}

// TestModule 测试 Fx 模块按配置提供 Reporter
func TestModule(t *testing.T) {
	var r Reporter
	app := fx.New(Module, fx.NopLogger, fx.Populate(&r))
	require.NoError(t, app.Start(context.Background()))
	assert.IsType(t, NopReporter{}, r)
	require.NoError(t, app.Stop(context.Background()))

	cfg := config.NewConfig()
	cfg.Metrics.Enabled = true
	reg := prometheus.NewRegistry()
	app = fx.New(Module, fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return reg }),
		fx.Populate(&r))
	require.NoError(t, app.Start(context.Background()))
	assert.IsType(t, &PrometheusReporter{}, r)
	require.NoError(t, app.Stop(context.Background()))

	t.Log("✅ Fx 模块测试通过")
}
