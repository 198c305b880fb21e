package topology

import (
	"errors"

	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/internal/core/connmgr"
)

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("topology: invalid config")

	// ErrTimeoutOrder 周期超时不大于发现超时
	ErrTimeoutOrder = config.ErrTimeoutOrder

	// ErrEngineClosed 引擎已销毁
	ErrEngineClosed = errors.New("topology: engine closed")

	// ErrNilLookup 未提供发现能力
	ErrNilLookup = errors.New("topology: nil lookup")

	// ErrNilConnector 未提供拨号能力
	ErrNilConnector = errors.New("topology: nil connector")

	// ErrEmptySelf 自身 ID 为空
	ErrEmptySelf = errors.New("topology: empty self id")

	// ErrCapacityReached 已达最大连接数，入站连接被拒绝
	ErrCapacityReached = connmgr.ErrCapacityReached

	// ErrPeerBlocked 节点被阻止，入站连接被拒绝
	ErrPeerBlocked = connmgr.ErrPeerBlocked

	// ErrAlreadyConnected 节点已连接，入站连接被拒绝
	ErrAlreadyConnected = connmgr.ErrAlreadyConnected
)
