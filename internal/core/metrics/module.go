package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-mmst/config"
)

// Config 指标配置
type Config struct {
	// Enabled 是否导出 Prometheus 指标
	Enabled bool

	// Namespace 指标名前缀
	Namespace string

	// SnapshotInterval 快照日志间隔，0 表示不输出
	SnapshotInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	def := config.DefaultMetricsConfig()
	return Config{
		Enabled:          def.Enabled,
		Namespace:        def.Namespace,
		SnapshotInterval: def.SnapshotInterval.Duration(),
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:          cfg.Metrics.Enabled,
		Namespace:        cfg.Metrics.Namespace,
		SnapshotInterval: cfg.Metrics.SnapshotInterval.Duration(),
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config       `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewReporterFromParams),
)

// NewReporterFromParams 从参数创建 Reporter
//
// 未启用时返回 NopReporter。
func NewReporterFromParams(p Params) (Reporter, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return NopReporter{}, nil
	}
	return NewPrometheusReporter(p.Registerer, cfg.Namespace)
}
