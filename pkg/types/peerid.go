package types

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              PeerID - 节点标识
// ============================================================================

// PeerID 节点唯一标识符
//
// 定长字节序列，相等性按字节内容判断。
//
// 外部表示格式：
//   - Key(): 十六进制（作为 map 键的规范形式）
//   - String(): Base58 编码（用户可读、可分享）
//   - ShortString(): Base58 前缀（日志简短标识）
type PeerID []byte

// EmptyPeerID 空节点ID
var EmptyPeerID PeerID

// Key 返回 PeerID 的规范字符串形式
//
// 用于 map 键，内容相同的 PeerID 返回相同的 Key。
func (id PeerID) Key() string {
	return hex.EncodeToString(id)
}

// String 返回 PeerID 的 Base58 字符串表示
func (id PeerID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return base58.Encode(id)
}

// ShortString 返回 PeerID 的短字符串表示
//
// 格式：Base58 前 8 个字符，用于日志中的简短标识。
func (id PeerID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回 PeerID 的字节切片
func (id PeerID) Bytes() []byte {
	return id
}

// Len 返回 PeerID 的字节长度
func (id PeerID) Len() int {
	return len(id)
}

// Equal 比较两个 PeerID 是否相等
func (id PeerID) Equal(other PeerID) bool {
	return bytes.Equal(id, other)
}

// IsEmpty 检查 PeerID 是否为空
func (id PeerID) IsEmpty() bool {
	return len(id) == 0
}

// Clone 返回 PeerID 的独立副本
func (id PeerID) Clone() PeerID {
	if id == nil {
		return nil
	}
	out := make(PeerID, len(id))
	copy(out, id)
	return out
}

// PeerIDFromBytes 从字节切片创建 PeerID（复制输入）
func PeerIDFromBytes(b []byte) (PeerID, error) {
	if len(b) == 0 {
		return EmptyPeerID, ErrEmptyPeerID
	}
	return PeerID(b).Clone(), nil
}

// ParsePeerID 从 Base58 字符串解析 PeerID
func ParsePeerID(s string) (PeerID, error) {
	if s == "" {
		return EmptyPeerID, ErrEmptyPeerID
	}
	b, err := base58.Decode(s)
	if err != nil || len(b) == 0 {
		return EmptyPeerID, ErrInvalidPeerID
	}
	return PeerID(b), nil
}

// PeerIDFromKey 从 Key() 形式（十六进制）还原 PeerID
func PeerIDFromKey(key string) (PeerID, error) {
	if key == "" {
		return EmptyPeerID, ErrEmptyPeerID
	}
	b, err := hex.DecodeString(key)
	if err != nil {
		return EmptyPeerID, ErrInvalidPeerID
	}
	return PeerID(b), nil
}

// RandomPeerID 生成指定长度的随机 PeerID
func RandomPeerID(size int) PeerID {
	id := make(PeerID, size)
	if _, err := rand.Read(id); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return id
}
