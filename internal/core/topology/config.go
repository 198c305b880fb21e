package topology

import (
	"fmt"
	"time"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/connmgr"
	"github.com/dep2p/go-mmst/internal/core/sampler"
	"github.com/dep2p/go-mmst/internal/core/scheduler"
)

// Config 拓扑引擎配置
//
// 构造后不可变。
type Config struct {
	// SampleSize 样本大小
	SampleSize int

	// PercentFar 建立远端连接的概率 [0, 1]
	PercentFar float64

	// MaxPeers 最大连接数
	MaxPeers int

	// LookupTimeout 发现阶段时间预算
	LookupTimeout time.Duration

	// QueueTimeout 单个周期的整体超时，0 表示 LookupTimeout + 2s
	QueueTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return fromTopologyConfig(config.DefaultTopologyConfig())
}

// Validate 验证配置
//
// QueueTimeout 必须大于 LookupTimeout，否则返回包装了 ErrTimeoutOrder 的错误。
func (c Config) Validate() error {
	if err := c.toTopologyConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// EffectiveQueueTimeout 返回实际生效的周期超时
func (c Config) EffectiveQueueTimeout() time.Duration {
	return c.toTopologyConfig().EffectiveQueueTimeout()
}

// WithSampleSize 设置样本大小
func (c Config) WithSampleSize(n int) Config {
	c.SampleSize = n
	return c
}

// WithPercentFar 设置远端连接概率
func (c Config) WithPercentFar(p float64) Config {
	c.PercentFar = p
	return c
}

// WithMaxPeers 设置最大连接数
func (c Config) WithMaxPeers(n int) Config {
	c.MaxPeers = n
	return c
}

// WithLookupTimeout 设置发现阶段时间预算
func (c Config) WithLookupTimeout(d time.Duration) Config {
	c.LookupTimeout = d
	return c
}

// WithQueueTimeout 设置周期超时
func (c Config) WithQueueTimeout(d time.Duration) Config {
	c.QueueTimeout = d
	return c
}

// ConfigFromUnified 从统一配置创建拓扑引擎配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return fromTopologyConfig(cfg.Topology)
}

func fromTopologyConfig(tc config.TopologyConfig) Config {
	return Config{
		SampleSize:    tc.SampleSize,
		PercentFar:    tc.PercentFar,
		MaxPeers:      tc.MaxPeers,
		LookupTimeout: tc.LookupTimeout.Duration(),
		QueueTimeout:  tc.QueueTimeout.Duration(),
	}
}

func (c Config) toTopologyConfig() config.TopologyConfig {
	return config.TopologyConfig{
		SampleSize:    c.SampleSize,
		PercentFar:    c.PercentFar,
		MaxPeers:      c.MaxPeers,
		LookupTimeout: config.Duration(c.LookupTimeout),
		QueueTimeout:  config.Duration(c.QueueTimeout),
	}
}

func (c Config) samplerConfig() sampler.Config {
	return sampler.Config{
		SampleSize:    c.SampleSize,
		LookupTimeout: c.LookupTimeout,
	}
}

func (c Config) registryConfig() connmgr.Config {
	return connmgr.Config{MaxPeers: c.MaxPeers}
}

func (c Config) schedulerConfig() scheduler.Config {
	return scheduler.Config{QueueTimeout: c.EffectiveQueueTimeout()}
}
