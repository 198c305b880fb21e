package mmst

import (
	"github.com/dep2p/go-mmst/internal/core/metrics"
	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// PeerID 节点标识
	PeerID = types.PeerID

	// Connection 连接句柄
	Connection = pkgif.Connection

	// Lookup 候选节点发现能力
	Lookup = pkgif.Lookup

	// LookupFunc 函数形式的 Lookup
	LookupFunc = pkgif.LookupFunc

	// Connector 拨号能力
	Connector = pkgif.Connector

	// ConnectFunc 函数形式的 Connector
	ConnectFunc = pkgif.ConnectFunc

	// Subscription 事件订阅
	Subscription = pkgif.Subscription

	// EvtNoPeersReachable 近邻阶段没有可达节点
	EvtNoPeersReachable = types.EvtNoPeersReachable

	// TopologySnapshot 拓扑快照
	TopologySnapshot = metrics.TopologySnapshot

	// CycleStats 运行周期统计
	CycleStats = metrics.CycleStats
)

// ParsePeerID 解析 Base58 编码的节点 ID
func ParsePeerID(s string) (PeerID, error) {
	return types.ParsePeerID(s)
}
