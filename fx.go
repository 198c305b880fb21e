package mmst

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/connmgr"
	"github.com/dep2p/go-mmst/internal/core/eventbus"
	"github.com/dep2p/go-mmst/internal/core/metrics"
	"github.com/dep2p/go-mmst/internal/core/topology"
	"github.com/dep2p/go-mmst/internal/util/randutil"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/lib/log"
	"github.com/dep2p/go-mmst/pkg/types"
)

var fxLogger = log.Logger("mmst/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置与外部协作者（Self、Lookup、Connector）
//  2. EventBus → ConnMgr（门控）→ Metrics
//  3. Topology（依赖以上全部）
//  4. 用户扩展
func buildFxApp(o *options, cfg *config.Config, self types.PeerID, lookup pkgif.Lookup, connector pkgif.Connector, overlay *Overlay) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 配置与外部协作者
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(cfg),
		fx.Supply(self),
		fx.Provide(
			func() pkgif.Lookup { return lookup },
			func() pkgif.Connector { return connector },
		),
	}

	// 可选注入
	if o.metrics.registerer != nil {
		reg := o.metrics.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}
	if o.rand != nil {
		rng := o.rand
		modules = append(modules, fx.Provide(func() randutil.Rand { return rng }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		eventbus.Module(), // 事件总线
		connmgr.Module(),  // 连接门控
		metrics.Module,    // 指标（未启用时为空实现）
		topology.Module(), // 拓扑引擎
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Overlay 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectOverlayComponents(overlay)))

	// ════════════════════════════════════════════════════════════════════════
	// 6. Fx 日志
	// ════════════════════════════════════════════════════════════════════════
	zl := zap.NewNop()
	if o.fxEventLog {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create fx event logger: %w", err)
		}
		zl = dev
		fxLogger.Debug("已启用 Fx 事件日志")
	}
	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zl}
	}))

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// overlayComponents Overlay 需要的内部组件
type overlayComponents struct {
	fx.In

	Engine *topology.Engine
	Bus    *eventbus.Bus
	Gater  *connmgr.Gater
}

// injectOverlayComponents 将组件注入 Overlay
func injectOverlayComponents(o *Overlay) func(overlayComponents) {
	return func(c overlayComponents) {
		o.engine = c.Engine
		o.bus = c.Bus
		o.gater = c.Gater
		fxLogger.Debug("组件注入完成", "self", o.self.ShortString())
	}
}
