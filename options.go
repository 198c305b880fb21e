package mmst

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/util/randutil"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置（WithConfig / WithConfigFile）
	base *config.Config

	// 预设
	preset string

	// 拓扑参数覆盖
	topology struct {
		sampleSize    *int
		percentFar    *float64
		maxPeers      *int
		lookupTimeout *time.Duration
		queueTimeout  *time.Duration
	}

	// 指标
	metrics struct {
		enable           *bool
		namespace        string
		snapshotInterval *time.Duration
		registerer       prometheus.Registerer
	}

	// 测试注入
	clock clock.Clock
	rand  randutil.Rand

	// 输出 Fx 事件日志
	fxEventLog bool

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// toInternalConfig 转换为内部配置
//
// 顺序：基础配置 → 预设 → 单项覆盖。
func (o *options) toInternalConfig() (*config.Config, error) {
	var cfg *config.Config
	if o.base != nil {
		cfg = o.base.Clone()
	} else {
		cfg = config.NewConfig()
	}

	if o.preset != "" {
		if err := config.ApplyPreset(cfg, o.preset); err != nil {
			return nil, err
		}
	}

	// 覆盖: 拓扑
	if o.topology.sampleSize != nil {
		cfg.Topology.SampleSize = *o.topology.sampleSize
	}
	if o.topology.percentFar != nil {
		cfg.Topology.PercentFar = *o.topology.percentFar
	}
	if o.topology.maxPeers != nil {
		cfg.Topology.MaxPeers = *o.topology.maxPeers
	}
	if o.topology.lookupTimeout != nil {
		cfg.Topology.LookupTimeout = config.Duration(*o.topology.lookupTimeout)
	}
	if o.topology.queueTimeout != nil {
		cfg.Topology.QueueTimeout = config.Duration(*o.topology.queueTimeout)
	}

	// 覆盖: 指标
	if o.metrics.enable != nil {
		cfg.Metrics.Enabled = *o.metrics.enable
	}
	if o.metrics.namespace != "" {
		cfg.Metrics.Namespace = o.metrics.namespace
	}
	if o.metrics.snapshotInterval != nil {
		cfg.Metrics.SnapshotInterval = config.Duration(*o.metrics.snapshotInterval)
	}

	return cfg, nil
}

// ============================================================================
//                              配置来源
// ============================================================================

// WithConfig 使用完整配置作为基础
//
// 之后的预设和单项选项在其上覆盖。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("配置不能为空")
		}
		o.base = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载基础配置
//
//	mmst.New(self, lookup, connector, mmst.WithConfigFile("mmst.json"))
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("配置文件路径不能为空")
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.base = cfg
		return nil
	}
}

// WithPreset 使用预设配置
//
// 可选值：PresetNameMinimal、PresetNameMobile、PresetNameDesktop、PresetNameServer。
func WithPreset(name string) Option {
	return func(o *options) error {
		switch name {
		case PresetNameMinimal, PresetNameMobile, PresetNameDesktop, PresetNameServer:
		default:
			return fmt.Errorf("未知预设: %q", name)
		}
		o.preset = name
		return nil
	}
}

// ============================================================================
//                              拓扑选项
// ============================================================================

// WithSampleSize 设置样本大小
//
// 样本越大越可能连到真正最近的节点；等于网络规模时会出现超级节点。
func WithSampleSize(n int) Option {
	return func(o *options) error {
		o.topology.sampleSize = &n
		return nil
	}
}

// WithPercentFar 设置建立远端连接的概率
//
// 越高冗余连接越多，分区的可能越小。
func WithPercentFar(p float64) Option {
	return func(o *options) error {
		o.topology.percentFar = &p
		return nil
	}
}

// WithMaxPeers 设置最大连接数
func WithMaxPeers(n int) Option {
	return func(o *options) error {
		o.topology.maxPeers = &n
		return nil
	}
}

// WithLookupTimeout 设置发现阶段时间预算
func WithLookupTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.topology.lookupTimeout = &d
		return nil
	}
}

// WithQueueTimeout 设置单个运行周期的整体超时
//
// 必须大于 LookupTimeout，否则 New 返回 ErrTimeoutOrder。
func WithQueueTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.topology.queueTimeout = &d
		return nil
	}
}

// ============================================================================
//                              指标选项
// ============================================================================

// WithMetrics 导出 Prometheus 指标
//
// reg 为 nil 时注册到 prometheus.DefaultRegisterer。
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) error {
		enable := true
		o.metrics.enable = &enable
		o.metrics.registerer = reg
		return nil
	}
}

// WithMetricsNamespace 设置指标名前缀
func WithMetricsNamespace(ns string) Option {
	return func(o *options) error {
		if ns == "" {
			return errors.New("指标前缀不能为空")
		}
		o.metrics.namespace = ns
		return nil
	}
}

// WithSnapshotInterval 定期输出拓扑快照日志，0 表示关闭
func WithSnapshotInterval(d time.Duration) Option {
	return func(o *options) error {
		o.metrics.snapshotInterval = &d
		return nil
	}
}

// ============================================================================
//                              高级选项
// ============================================================================

// WithRandSeed 使用固定种子的随机源
//
// 样本抽取与远端抽签都由它决定，便于复现。
func WithRandSeed(seed uint64) Option {
	return func(o *options) error {
		o.rand = randutil.New(seed)
		return nil
	}
}

// WithClock 替换时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("时钟不能为空")
		}
		o.clock = c
		return nil
	}
}

// WithFxEventLog 输出 Fx 依赖注入事件日志（调试用）
func WithFxEventLog(enable bool) Option {
	return func(o *options) error {
		o.fxEventLog = enable
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
//
// 可用于替换内部组件或注入额外依赖。
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
