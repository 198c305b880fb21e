package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// 拓扑默认值
const (
	// DefaultSampleSize 默认样本大小
	DefaultSampleSize = 10

	// DefaultPercentFar 默认建立远端连接的概率
	DefaultPercentFar = 0.33

	// DefaultMaxPeers 默认最大连接数
	DefaultMaxPeers = 4

	// DefaultLookupTimeout 默认发现阶段时间预算
	DefaultLookupTimeout = time.Second

	// DefaultQueueTimeoutSlack 未显式设置 QueueTimeout 时在 LookupTimeout 之上追加的时间
	DefaultQueueTimeoutSlack = 2 * time.Second
)

// ErrTimeoutOrder 周期超时必须大于发现超时
var ErrTimeoutOrder = errors.New("queue timeout must be greater than lookup timeout")

// TopologyConfig 拓扑维护配置
//
// 控制每个运行周期的行为：
//   - 发现阶段收集多少候选（SampleSize）以及等待多久（LookupTimeout）
//   - 同时保持多少连接（MaxPeers）
//   - 以多大概率建立一条远端冗余连接（PercentFar）
//   - 单个周期最长运行多久（QueueTimeout）
type TopologyConfig struct {
	// SampleSize 样本大小
	// 样本越大，越可能连接到 XOR 距离上真正接近的节点
	SampleSize int `json:"sample_size"`

	// PercentFar 建立远端连接的概率 [0, 1]
	// 越大冗余连接越多，网络分区的可能越小
	PercentFar float64 `json:"percent_far"`

	// MaxPeers 最大连接数
	MaxPeers int `json:"max_peers"`

	// LookupTimeout 发现阶段时间预算
	LookupTimeout Duration `json:"lookup_timeout"`

	// QueueTimeout 单个运行周期的整体超时
	// 为 0 时取 LookupTimeout + 2s
	QueueTimeout Duration `json:"queue_timeout,omitempty"`
}

// DefaultTopologyConfig 返回默认拓扑配置
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		SampleSize:    DefaultSampleSize,
		PercentFar:    DefaultPercentFar,
		MaxPeers:      DefaultMaxPeers,
		LookupTimeout: Duration(DefaultLookupTimeout),
	}
}

// EffectiveQueueTimeout 返回实际生效的周期超时
func (c TopologyConfig) EffectiveQueueTimeout() time.Duration {
	if c.QueueTimeout > 0 {
		return c.QueueTimeout.Duration()
	}
	return c.LookupTimeout.Duration() + DefaultQueueTimeoutSlack
}

// Validate 验证拓扑配置
//
// 超时顺序错误不会被自动修正。
func (c TopologyConfig) Validate() error {
	var err error

	if c.SampleSize < 1 {
		err = multierr.Append(err, fmt.Errorf("sample size must be positive, got %d", c.SampleSize))
	}
	if c.PercentFar < 0 || c.PercentFar > 1 {
		err = multierr.Append(err, fmt.Errorf("percent far must be within [0, 1], got %v", c.PercentFar))
	}
	if c.MaxPeers < 1 {
		err = multierr.Append(err, fmt.Errorf("max peers must be positive, got %d", c.MaxPeers))
	}
	if c.LookupTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("lookup timeout must be positive, got %s", c.LookupTimeout))
	}
	if c.QueueTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("queue timeout must be non-negative, got %s", c.QueueTimeout))
	} else if c.EffectiveQueueTimeout() <= c.LookupTimeout.Duration() {
		err = multierr.Append(err, fmt.Errorf("%w: queue %s, lookup %s",
			ErrTimeoutOrder, c.EffectiveQueueTimeout(), c.LookupTimeout))
	}

	return err
}

// WithSampleSize 设置样本大小
func (c TopologyConfig) WithSampleSize(n int) TopologyConfig {
	c.SampleSize = n
	return c
}

// WithPercentFar 设置远端连接概率
func (c TopologyConfig) WithPercentFar(p float64) TopologyConfig {
	c.PercentFar = p
	return c
}

// WithMaxPeers 设置最大连接数
func (c TopologyConfig) WithMaxPeers(n int) TopologyConfig {
	c.MaxPeers = n
	return c
}

// WithLookupTimeout 设置发现阶段时间预算
func (c TopologyConfig) WithLookupTimeout(d time.Duration) TopologyConfig {
	c.LookupTimeout = Duration(d)
	return c
}

// WithQueueTimeout 设置周期超时
func (c TopologyConfig) WithQueueTimeout(d time.Duration) TopologyConfig {
	c.QueueTimeout = Duration(d)
	return c
}
