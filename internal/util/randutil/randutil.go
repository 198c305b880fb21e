// Package randutil 提供并发安全、可注入种子的随机源
//
// 拓扑层的样本抽取与远端连接概率都依赖随机源。
// 生产环境使用 crypto/rand 生成种子，测试可传入固定种子得到确定性结果。
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2" //nolint:gosec // G404: 仅用于拓扑选择，种子来自 crypto/rand
	"sync"
	"time"
)

// Rand 拓扑层使用的随机能力
type Rand interface {
	// Float64 返回 [0, 1) 内的均匀随机数
	Float64() float64

	// Shuffle 随机打乱 n 个元素
	Shuffle(n int, swap func(i, j int))
}

// Locked 加锁的随机源
//
// *rand.Rand 本身不是并发安全的。
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

var _ Rand = (*Locked)(nil)

// New 使用固定种子创建随机源
func New(seed uint64) *Locked {
	return &Locked{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom 使用加密安全种子创建随机源
func NewRandom() *Locked {
	return New(cryptoSeed())
}

// Float64 实现 Rand
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Shuffle 实现 Rand
func (l *Locked) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// cryptoSeed 生成加密安全的随机种子
func cryptoSeed() uint64 {
	b := make([]byte, 8)
	if _, err := crand.Read(b); err != nil {
		// 回退到时间戳（不应该发生）
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(b)
}
