// Package interfaces 定义 MMST 公共接口
//
// 本文件定义 ConnMgr 组件接口，对应 internal/core/connmgr/ 实现。
// 包括：ConnRegistry（已连接集合）、ConnGater（连接门控）
package interfaces

import "github.com/dep2p/go-mmst/pkg/types"

// AddOptions 登记连接时的附加属性
type AddOptions struct {
	// ReconnectEligible 连接关闭后是否触发新的运行周期
	ReconnectEligible bool

	// Far 是否为远端（冗余）连接
	Far bool
}

// ConnRegistry 定义已连接集合接口
//
// 所有方法都是并发安全的：关闭通知可以在任意时刻异步触发。
type ConnRegistry interface {
	// TryAdd 在容量允许时登记连接
	//
	// 容量检查与插入是原子的。返回 false 表示已满，连接未被登记。
	TryAdd(id types.PeerID, conn Connection, opts AddOptions) bool

	// Has 检查节点是否已连接
	Has(id types.PeerID) bool

	// Len 返回已连接节点数
	Len() int

	// Full 是否已达容量上限
	Full() bool

	// HasFar 是否存在远端连接
	HasFar() bool

	// Peers 返回已连接节点列表
	Peers() []types.PeerID
}

// ConnGater 定义连接门控接口
type ConnGater interface {
	// BlockPeer 阻止节点
	BlockPeer(id types.PeerID)

	// UnblockPeer 解除节点阻止
	UnblockPeer(id types.PeerID)

	// IsBlocked 检查节点是否被阻止
	IsBlocked(id types.PeerID) bool

	// InterceptPeerDial 拨号前检查，返回 true 表示允许
	InterceptPeerDial(id types.PeerID) bool

	// InterceptAccept 接受入站连接前检查，返回 true 表示允许
	InterceptAccept(id types.PeerID) bool
}
