package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-mmst/config"
)

// TestSimulation 小规模网络收敛
func TestSimulation(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Topology = cfg.Topology.WithMaxPeers(3).WithSampleSize(4).WithLookupTimeout(200 * time.Millisecond)

	sim := newSimulation(simParams{size: 10, idLen: 4, seed: 42, dialLatency: time.Millisecond})
	require.NoError(t, sim.start(context.Background(), cfg, nil))
	defer sim.close()

	require.Eventually(t, func() bool {
		return sim.stats().isolated == 0
	}, 5*time.Second, 20*time.Millisecond)

	st := sim.stats()
	assert.Positive(t, st.edges)
	assert.LessOrEqual(t, st.avgDegree, 3.0)

	// 断开后由可重连连接触发的周期补回
	sim.dropRandom()
	require.Eventually(t, func() bool {
		return sim.stats().isolated == 0
	}, 5*time.Second, 20*time.Millisecond)

	t.Log("✅ 模拟网络收敛")
}

// TestBuildConfig 默认参数生成合法配置
func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxPeers, cfg.Topology.MaxPeers)
}
