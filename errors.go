package mmst

import (
	"errors"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/topology"
	"github.com/dep2p/go-mmst/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 覆盖网络未启动
	ErrNotStarted = errors.New("overlay not started")

	// ErrAlreadyStarted 覆盖网络已启动
	ErrAlreadyStarted = errors.New("overlay already started")

	// ErrOverlayClosed 覆盖网络已关闭
	ErrOverlayClosed = errors.New("overlay closed")

	// ────────────────────────────────────────────────────────────────────────
	// 配置错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = topology.ErrInvalidConfig

	// ErrTimeoutOrder QueueTimeout 不大于 LookupTimeout
	ErrTimeoutOrder = config.ErrTimeoutOrder

	// ErrIDLengthMismatch 节点 ID 长度不一致
	ErrIDLengthMismatch = types.ErrIDLengthMismatch

	// ────────────────────────────────────────────────────────────────────────
	// 入站准入错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrCapacityReached 已达最大连接数
	ErrCapacityReached = topology.ErrCapacityReached

	// ErrPeerBlocked 节点被阻止
	ErrPeerBlocked = topology.ErrPeerBlocked

	// ErrAlreadyConnected 节点已连接
	ErrAlreadyConnected = topology.ErrAlreadyConnected

	// ErrEmptyPeerID 节点 ID 为空
	ErrEmptyPeerID = types.ErrEmptyPeerID
)
