package types

import "time"

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              拓扑事件
// ============================================================================

// 事件类型常量
const (
	// EventTypeNoPeersReachable 近邻阶段全部失败
	EventTypeNoPeersReachable = "topology.no_peers_reachable"
)

// EvtNoPeersReachable 一次运行周期的近邻阶段遍历完整个样本仍未建立任何连接
//
// 这是拓扑层对外发出的唯一信号。SampleSize 为 0 表示发现阶段没有得到任何候选。
type EvtNoPeersReachable struct {
	BaseEvent

	// SampleSize 本周期样本大小
	SampleSize int

	// Attempts 本周期实际发起的拨号次数
	Attempts int
}

// NewEvtNoPeersReachable 创建 EvtNoPeersReachable 事件
func NewEvtNoPeersReachable(sampleSize, attempts int) *EvtNoPeersReachable {
	return &EvtNoPeersReachable{
		BaseEvent:  NewBaseEvent(EventTypeNoPeersReachable),
		SampleSize: sampleSize,
		Attempts:   attempts,
	}
}
