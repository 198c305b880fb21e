package connmgr

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
)

// GaterResult 门控器输出
type GaterResult struct {
	fx.Out

	Gater     *Gater
	ConnGater pkgif.ConnGater
}

// Module 返回 Fx 模块
//
// 登记表依赖拓扑引擎提供的触发回调，由引擎自行创建；
// 本模块提供配置与连接门控。
func Module() fx.Option {
	return fx.Module("connmgr",
		fx.Provide(
			ConfigFromUnified,
			ProvideGater,
		),
	)
}

// ProvideGater 提供连接门控器
func ProvideGater() GaterResult {
	g := NewGater()
	return GaterResult{
		Gater:     g,
		ConnGater: g,
	}
}
