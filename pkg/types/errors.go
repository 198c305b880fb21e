package types

import "errors"

// ============================================================================
//                              ID 相关错误
// ============================================================================

var (
	// ErrEmptyPeerID 空节点 ID
	ErrEmptyPeerID = errors.New("empty peer ID")

	// ErrInvalidPeerID 无效的节点 ID（无法解码）
	ErrInvalidPeerID = errors.New("invalid peer ID")

	// ErrIDLengthMismatch 两个节点 ID 长度不一致，无法计算 XOR 距离
	ErrIDLengthMismatch = errors.New("peer ID length mismatch")
)
