package metrics

import "github.com/dep2p/go-mmst/pkg/lib/log"

var logger = log.Logger("core/metrics")

// 拨号阶段
const (
	PhaseNear = "near"
	PhaseFar  = "far"
)

// 拨号结果
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultDiscarded = "discarded"
	ResultSkipped   = "skipped"
)

// 入站拒绝原因
const (
	ReasonCapacity = "capacity"
	ReasonBlocked  = "blocked"
	ReasonClosed   = "closed"
	ReasonDup      = "duplicate"
)

// Reporter 拓扑引擎指标上报接口
//
// 所有方法必须并发安全且不阻塞。
type Reporter interface {
	// CycleStarted 运行周期开始执行
	CycleStarted()

	// CycleFinished 运行周期结束，outcome 为 completed/abandoned/stopped
	CycleFinished(outcome string)

	// SampleTaken 抽样完成
	SampleTaken(size int)

	// ConnectAttempt 一次拨号尝试的结果
	ConnectAttempt(phase, result string)

	// NoPeersReachable 近邻阶段全部失败
	NoPeersReachable()

	// IncomingRejected 拒绝入站连接
	IncomingRejected(reason string)

	// PeersChanged 已连接集合变化
	PeersChanged(size int, hasFar bool)
}

// ============================================================================
//                              NopReporter
// ============================================================================

// NopReporter 丢弃所有指标
type NopReporter struct{}

var _ Reporter = NopReporter{}

func (NopReporter) CycleStarted()                 {}
func (NopReporter) CycleFinished(string)          {}
func (NopReporter) SampleTaken(int)               {}
func (NopReporter) ConnectAttempt(string, string) {}
func (NopReporter) NoPeersReachable()             {}
func (NopReporter) IncomingRejected(string)       {}
func (NopReporter) PeersChanged(int, bool)        {}

// ============================================================================
//                              multiReporter
// ============================================================================

type multiReporter []Reporter

// Multi 组合多个 Reporter，忽略 nil
func Multi(reporters ...Reporter) Reporter {
	out := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return NopReporter{}
	case 1:
		return out[0]
	default:
		return out
	}
}

func (m multiReporter) CycleStarted() {
	for _, r := range m {
		r.CycleStarted()
	}
}

func (m multiReporter) CycleFinished(outcome string) {
	for _, r := range m {
		r.CycleFinished(outcome)
	}
}

func (m multiReporter) SampleTaken(size int) {
	for _, r := range m {
		r.SampleTaken(size)
	}
}

func (m multiReporter) ConnectAttempt(phase, result string) {
	for _, r := range m {
		r.ConnectAttempt(phase, result)
	}
}

func (m multiReporter) NoPeersReachable() {
	for _, r := range m {
		r.NoPeersReachable()
	}
}

func (m multiReporter) IncomingRejected(reason string) {
	for _, r := range m {
		r.IncomingRejected(reason)
	}
}

func (m multiReporter) PeersChanged(size int, hasFar bool) {
	for _, r := range m {
		r.PeersChanged(size, hasFar)
	}
}
