package connmgr

import (
	"fmt"

	"github.com/dep2p/go-mmst/config"
)

// Config 连接登记表配置
type Config struct {
	// MaxPeers 最大连接数
	MaxPeers int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxPeers: config.DefaultMaxPeers,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.MaxPeers < 1 {
		return fmt.Errorf("%w: max peers %d", ErrInvalidConfig, c.MaxPeers)
	}
	return nil
}

// WithMaxPeers 设置最大连接数
func (c Config) WithMaxPeers(n int) Config {
	c.MaxPeers = n
	return c
}

// ConfigFromUnified 从统一配置创建连接登记表配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		MaxPeers: cfg.Topology.MaxPeers,
	}
}
