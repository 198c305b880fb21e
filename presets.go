package mmst

import "github.com/dep2p/go-mmst/config"

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置常量
// ════════════════════════════════════════════════════════════════════════════

// 预设名称常量
const (
	// PresetNameMinimal 最小预设，适合测试
	PresetNameMinimal = "minimal"

	// PresetNameMobile 移动端预设
	PresetNameMobile = "mobile"

	// PresetNameDesktop 桌面端预设（默认值）
	PresetNameDesktop = "desktop"

	// PresetNameServer 服务器预设
	PresetNameServer = "server"
)

// GetPresetConfig 返回指定预设的完整配置
//
//	cfg, err := mmst.GetPresetConfig(mmst.PresetNameServer)
func GetPresetConfig(name string) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := config.ApplyPreset(cfg, name); err != nil {
		return nil, err
	}
	return cfg, nil
}
