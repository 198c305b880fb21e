// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（minimal/mobile/desktop/server）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Topology.MaxPeers = 8
//
//	// 应用预设到现有配置
//	config.ApplyPreset(cfg, "server")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 MMST 的完整配置结构
//
// 配置按照功能模块组织：
//   - Topology: 拓扑维护（样本大小、远端比例、连接上限、超时）
//   - Metrics: 指标采集
type Config struct {
	// Topology 拓扑维护配置
	Topology TopologyConfig `json:"topology"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Topology: DefaultTopologyConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，返回的错误包含全部违规项。
func (c *Config) Validate() error {
	if err := c.Topology.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

// Clone 返回配置副本
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}
