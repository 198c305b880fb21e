package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现在 JSON 中的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "topology": {"sample_size": 16, "max_peers": 6, "lookup_timeout": "2s"},
//	  "metrics": {"enabled": true}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载并验证配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为带缩进的 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "minimal": 最少连接，适合测试
//   - "mobile": 低连接数，省电
//   - "desktop": 默认配置
//   - "server": 高连接数、大样本、较少冗余
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "minimal":
		cfg.Topology.MaxPeers = 2
		cfg.Topology.SampleSize = 4
	case "mobile":
		cfg.Topology.MaxPeers = 3
		cfg.Topology.SampleSize = 8
	case "desktop", "":
		// 使用默认配置
	case "server":
		// 大样本让近邻更准确，连接多时冗余比例可以降低
		cfg.Topology.MaxPeers = 16
		cfg.Topology.SampleSize = 32
		cfg.Topology.PercentFar = 0.2
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
	return nil
}
