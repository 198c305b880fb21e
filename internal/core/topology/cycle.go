package topology

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/dep2p/go-mmst/internal/core/metrics"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/types"
)

// dialResult 一轮拨号的结果
type dialResult int

const (
	// dialConnected 已建立并登记一条连接
	dialConnected dialResult = iota
	// dialExhausted 候选耗尽，没有成功
	dialExhausted
	// dialRejected 拨号成功但集合已满，新连接已关闭
	dialRejected
	// dialAborted 引擎已销毁或周期已超时
	dialAborted
)

// runCycle 执行一个运行周期
func (e *Engine) runCycle(ctx context.Context) {
	id := uuid.NewString()[:8]
	e.reporter.CycleStarted()

	// Guard
	if e.aborted(ctx) {
		return
	}
	if e.registry.Full() {
		logger.Debug("已满，跳过运行周期", "cycle", id, "size", e.registry.Len())
		return
	}

	// Sample
	sample := e.sampler.Sample(ctx, e.lookup)
	e.reporter.SampleTaken(len(sample))
	if e.aborted(ctx) {
		return
	}
	logger.Debug("抽样完成", "cycle", id, "sample", len(sample))

	// NearConnect
	res, attempts := e.dialFirst(ctx, id, metrics.PhaseNear, sample, pkgif.AddOptions{ReconnectEligible: true})
	switch res {
	case dialExhausted:
		if e.aborted(ctx) {
			return
		}
		e.noPeersReachable(id, len(sample), attempts)
		return
	case dialRejected, dialAborted:
		return
	}

	// FarDecision
	if e.aborted(ctx) {
		return
	}
	if e.registry.HasFar() {
		return
	}
	if e.registry.Full() {
		return
	}
	if r := e.rng.Float64(); r > e.cfg.PercentFar {
		logger.Debug("本轮不建立远端连接", "cycle", id, "r", r, "percentFar", e.cfg.PercentFar)
		return
	}

	// FarConnect
	far := slices.Clone(sample)
	slices.Reverse(far)
	e.dialFirst(ctx, id, metrics.PhaseFar, far, pkgif.AddOptions{ReconnectEligible: true, Far: true})
}

// dialFirst 按顺序拨号，首个成功即返回
//
// 已连接和被阻止的候选跳过，不计入尝试次数。
func (e *Engine) dialFirst(ctx context.Context, cycle, phase string, candidates []types.PeerID, opts pkgif.AddOptions) (dialResult, int) {
	attempts := 0
	for _, peer := range candidates {
		if e.aborted(ctx) {
			return dialAborted, attempts
		}
		if e.registry.Has(peer) {
			continue
		}
		if e.gater != nil && !e.gater.InterceptPeerDial(peer) {
			e.reporter.ConnectAttempt(phase, metrics.ResultSkipped)
			continue
		}

		attempts++
		conn, err := e.connector.Connect(ctx, peer)

		if e.aborted(ctx) {
			// 迟到的连接既不登记也不关闭，由嵌入方处理
			if err == nil && conn != nil {
				e.reporter.ConnectAttempt(phase, metrics.ResultDiscarded)
				logger.Debug("丢弃迟到的连接", "cycle", cycle, "phase", phase, "peer", peer.ShortString())
			}
			return dialAborted, attempts
		}
		if err != nil || conn == nil {
			e.reporter.ConnectAttempt(phase, metrics.ResultFailure)
			logger.Debug("拨号失败", "cycle", cycle, "phase", phase, "peer", peer.ShortString(), "err", err)
			continue
		}

		if !e.registry.TryAdd(peer, conn, opts) {
			_ = conn.Close()
			e.reporter.ConnectAttempt(phase, metrics.ResultDiscarded)
			logger.Debug("已满，关闭新建连接", "cycle", cycle, "phase", phase, "peer", peer.ShortString())
			return dialRejected, attempts
		}

		e.reporter.ConnectAttempt(phase, metrics.ResultSuccess)
		logger.Info("建立连接",
			"cycle", cycle,
			"phase", phase,
			"peer", peer.ShortString(),
			"size", e.registry.Len())
		return dialConnected, attempts
	}
	return dialExhausted, attempts
}

// noPeersReachable 近邻阶段没有任何成功
func (e *Engine) noPeersReachable(cycle string, sampleSize, attempts int) {
	e.reporter.NoPeersReachable()
	logger.Warn("没有可达节点", "cycle", cycle, "sample", sampleSize, "attempts", attempts)

	if e.emitter == nil {
		return
	}
	if err := e.emitter.Emit(types.NewEvtNoPeersReachable(sampleSize, attempts)); err != nil {
		logger.Debug("发出事件失败", "err", err)
	}
}

// aborted 检查点：已销毁或周期已结束
func (e *Engine) aborted(ctx context.Context) bool {
	if e.destroyed.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
