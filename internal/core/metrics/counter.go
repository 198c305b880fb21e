package metrics

import "sync/atomic"

// CycleStats 运行周期统计
type CycleStats struct {
	Started          uint64 `json:"started"`
	Completed        uint64 `json:"completed"`
	Abandoned        uint64 `json:"abandoned"`
	NoPeersReachable uint64 `json:"noPeersReachable"`
	NearConnects     uint64 `json:"nearConnects"`
	FarConnects      uint64 `json:"farConnects"`
	ConnectFailures  uint64 `json:"connectFailures"`
	IncomingRejected uint64 `json:"incomingRejected"`
}

// CycleCounter 进程内计数器
type CycleCounter struct {
	started          atomic.Uint64
	completed        atomic.Uint64
	abandoned        atomic.Uint64
	noPeers          atomic.Uint64
	nearConnects     atomic.Uint64
	farConnects      atomic.Uint64
	connectFailures  atomic.Uint64
	incomingRejected atomic.Uint64
}

var _ Reporter = (*CycleCounter)(nil)

// NewCycleCounter 创建计数器
func NewCycleCounter() *CycleCounter {
	return &CycleCounter{}
}

// CycleStarted 实现 Reporter
func (c *CycleCounter) CycleStarted() {
	c.started.Add(1)
}

// CycleFinished 实现 Reporter
func (c *CycleCounter) CycleFinished(outcome string) {
	switch outcome {
	case "completed":
		c.completed.Add(1)
	case "abandoned":
		c.abandoned.Add(1)
	}
}

// SampleTaken 实现 Reporter
func (c *CycleCounter) SampleTaken(int) {}

// ConnectAttempt 实现 Reporter
func (c *CycleCounter) ConnectAttempt(phase, result string) {
	switch {
	case result == ResultFailure:
		c.connectFailures.Add(1)
	case result != ResultSuccess:
	case phase == PhaseNear:
		c.nearConnects.Add(1)
	case phase == PhaseFar:
		c.farConnects.Add(1)
	}
}

// NoPeersReachable 实现 Reporter
func (c *CycleCounter) NoPeersReachable() {
	c.noPeers.Add(1)
}

// IncomingRejected 实现 Reporter
func (c *CycleCounter) IncomingRejected(string) {
	c.incomingRejected.Add(1)
}

// PeersChanged 实现 Reporter
func (c *CycleCounter) PeersChanged(int, bool) {}

// Stats 返回统计快照
func (c *CycleCounter) Stats() CycleStats {
	return CycleStats{
		Started:          c.started.Load(),
		Completed:        c.completed.Load(),
		Abandoned:        c.abandoned.Load(),
		NoPeersReachable: c.noPeers.Load(),
		NearConnects:     c.nearConnects.Load(),
		FarConnects:      c.farConnects.Load(),
		ConnectFailures:  c.connectFailures.Load(),
		IncomingRejected: c.incomingRejected.Load(),
	}
}
