package topology

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/metrics"
	"github.com/dep2p/go-mmst/internal/util/randutil"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/types"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 引擎依赖参数
type Params struct {
	fx.In

	Self      types.PeerID
	Config    Config
	Lookup    pkgif.Lookup
	Connector pkgif.Connector

	UnifiedCfg *config.Config   `optional:"true"`
	Gater      pkgif.ConnGater  `optional:"true"`
	EventBus   pkgif.EventBus   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
	Clock      clock.Clock      `optional:"true"`
	Rand       randutil.Rand    `optional:"true"`
}

// Result 引擎输出
type Result struct {
	fx.Out

	Engine   *Engine
	Topology pkgif.Topology
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("topology",
		fx.Provide(
			ConfigFromUnified,
			ProvideEngine,
		),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEngine 提供拓扑引擎
//
// 引擎在 OnStart 时启动。
func ProvideEngine(p Params) (Result, error) {
	opts := []Option{
		WithClock(p.Clock),
		WithRand(p.Rand),
		WithReporter(p.Reporter),
	}
	if p.Gater != nil {
		opts = append(opts, WithGater(p.Gater))
	}
	if p.EventBus != nil {
		opts = append(opts, WithEventBus(p.EventBus))
	}
	if p.UnifiedCfg != nil {
		opts = append(opts, WithSnapshotInterval(p.UnifiedCfg.Metrics.SnapshotInterval.Duration()))
	}

	e, err := newEngine(p.Self, p.Config, p.Lookup, p.Connector, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Engine:   e,
		Topology: e,
	}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC     fx.Lifecycle
	Engine *Engine
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Engine.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Engine.Close()
		},
	})
}
