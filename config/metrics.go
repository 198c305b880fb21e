package config

import (
	"errors"
	"fmt"
)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否启用 Prometheus 指标
	Enabled bool `json:"enabled"`

	// Namespace 指标名前缀
	Namespace string `json:"namespace,omitempty"`

	// SnapshotInterval 拓扑快照日志间隔，0 表示不输出
	SnapshotInterval Duration `json:"snapshot_interval,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "mmst",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.Enabled && c.Namespace == "" {
		return errors.New("metrics namespace must not be empty when metrics are enabled")
	}
	if c.SnapshotInterval < 0 {
		return fmt.Errorf("snapshot interval must be non-negative, got %s", c.SnapshotInterval)
	}
	return nil
}
