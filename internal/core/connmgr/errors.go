package connmgr

import "errors"

// 连接管理器错误定义
var (
	// ErrCapacityReached 已达最大连接数
	ErrCapacityReached = errors.New("connmgr: capacity reached")

	// ErrPeerBlocked 节点被阻止
	ErrPeerBlocked = errors.New("connmgr: peer blocked")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("connmgr: invalid config")

	// ErrRegistryClosed 登记表已关闭
	ErrRegistryClosed = errors.New("connmgr: registry closed")

	// ErrAlreadyConnected 节点已连接
	ErrAlreadyConnected = errors.New("connmgr: peer already connected")

	// ErrNilConnection 连接为空
	ErrNilConnection = errors.New("connmgr: nil connection")
)
