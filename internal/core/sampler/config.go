package sampler

import (
	"fmt"
	"time"

	"github.com/dep2p/go-mmst/config"
)

// Config 抽样配置
type Config struct {
	// SampleSize 样本大小
	SampleSize int

	// LookupTimeout 发现阶段时间预算
	LookupTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		SampleSize:    config.DefaultSampleSize,
		LookupTimeout: config.DefaultLookupTimeout,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.SampleSize < 1 {
		return fmt.Errorf("%w: sample size %d", ErrInvalidConfig, c.SampleSize)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("%w: lookup timeout %s", ErrInvalidConfig, c.LookupTimeout)
	}
	return nil
}

// WithSampleSize 设置样本大小
func (c Config) WithSampleSize(n int) Config {
	c.SampleSize = n
	return c
}

// WithLookupTimeout 设置发现阶段时间预算
func (c Config) WithLookupTimeout(d time.Duration) Config {
	c.LookupTimeout = d
	return c
}

// ConfigFromUnified 从统一配置创建抽样配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		SampleSize:    cfg.Topology.SampleSize,
		LookupTimeout: cfg.Topology.LookupTimeout.Duration(),
	}
}
