// Package interfaces 定义 MMST 公共接口
//
// 本文件定义拓扑层与外部协作者之间的契约，以及拓扑引擎接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-mmst/pkg/types"
)

// ============================================================================
//                              外部协作者
// ============================================================================

// Connection 连接句柄
//
// 拓扑层只依赖一次性的关闭通知：Done() 返回的通道在连接关闭时被 close，
// 且只会发生一次。Close 用于拒绝入站连接或丢弃多余的出站连接。
type Connection interface {
	// Done 返回在连接关闭时被关闭的通道
	Done() <-chan struct{}

	// Close 关闭连接
	Close() error
}

// Lookup 候选节点发现能力
//
// 返回的通道按批次产出 PeerID；发现结束（包括出错）时由实现方关闭通道。
// 实现方可以永不关闭通道，拓扑层依靠超时停止读取。
// ctx 在拓扑层不再关心结果时取消，实现方应据此停止写入，避免阻塞。
type Lookup interface {
	Lookup(ctx context.Context) (<-chan []types.PeerID, error)
}

// LookupFunc 函数形式的 Lookup
type LookupFunc func(ctx context.Context) (<-chan []types.PeerID, error)

// Lookup 实现 Lookup 接口
func (f LookupFunc) Lookup(ctx context.Context) (<-chan []types.PeerID, error) {
	return f(ctx)
}

// Connector 拨号能力
//
// 所有结果（成功与失败）都通过返回值给出。
// 返回的 error 非 nil 表示这次拨号失败，拓扑层会继续尝试下一个候选。
type Connector interface {
	Connect(ctx context.Context, id types.PeerID) (Connection, error)
}

// ConnectFunc 函数形式的 Connector
type ConnectFunc func(ctx context.Context, id types.PeerID) (Connection, error)

// Connect 实现 Connector 接口
func (f ConnectFunc) Connect(ctx context.Context, id types.PeerID) (Connection, error) {
	return f(ctx, id)
}

// ============================================================================
//                              Topology 拓扑引擎
// ============================================================================

// Topology 定义拓扑维护引擎接口
type Topology interface {
	// Run 请求执行一次拓扑评估周期（排队执行，不阻塞）
	Run() error

	// HandleIncoming 处理对端发起的入站连接
	//
	// 已达容量上限时立即关闭连接并返回错误，不做任何登记。
	HandleIncoming(id types.PeerID, conn Connection) error

	// ConnectedPeers 返回当前已连接的节点
	ConnectedPeers() []types.PeerID

	// HasFarConnection 是否存在活跃的远端连接
	HasFarConnection() bool

	// Close 销毁引擎，终止后续及进行中的周期
	//
	// 已建立的连接不会被关闭。
	Close() error
}
