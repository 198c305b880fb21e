package scheduler

import (
	"fmt"
	"time"

	"github.com/dep2p/go-mmst/config"
)

// Config 调度器配置
type Config struct {
	// QueueTimeout 单个任务的整体超时
	QueueTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueTimeout: config.DefaultTopologyConfig().EffectiveQueueTimeout(),
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.QueueTimeout <= 0 {
		return fmt.Errorf("%w: queue timeout %s", ErrInvalidConfig, c.QueueTimeout)
	}
	return nil
}

// WithQueueTimeout 设置任务超时
func (c Config) WithQueueTimeout(d time.Duration) Config {
	c.QueueTimeout = d
	return c
}

// ConfigFromUnified 从统一配置创建调度器配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		QueueTimeout: cfg.Topology.EffectiveQueueTimeout(),
	}
}
