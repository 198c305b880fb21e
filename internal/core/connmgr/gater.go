package connmgr

import (
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/types"
)

// Gater 连接门控器
type Gater struct {
	mu      sync.RWMutex
	blocked map[string]types.PeerID // Key -> PeerID

	// 统计
	interceptedDials   atomic.Int64
	interceptedAccepts atomic.Int64
}

var _ pkgif.ConnGater = (*Gater)(nil)

// NewGater 创建连接门控器
func NewGater() *Gater {
	return &Gater{
		blocked: make(map[string]types.PeerID),
	}
}

// BlockPeer 阻止节点
//
// 已建立的连接不受影响，只拦截之后的拨号与入站。
func (g *Gater) BlockPeer(id types.PeerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.blocked[id.Key()] = id.Clone()
	logger.Debug("阻止节点", "peer", id.ShortString())
}

// UnblockPeer 解除节点阻止
func (g *Gater) UnblockPeer(id types.PeerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.blocked, id.Key())
}

// IsBlocked 检查节点是否被阻止
func (g *Gater) IsBlocked(id types.PeerID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, blocked := g.blocked[id.Key()]
	return blocked
}

// InterceptPeerDial 在拨号前检查是否允许连接到目标节点
// 返回 true 表示允许，false 表示拒绝
func (g *Gater) InterceptPeerDial(id types.PeerID) bool {
	if g.IsBlocked(id) {
		g.interceptedDials.Add(1)
		return false
	}
	return true
}

// InterceptAccept 在接受入站连接前检查是否允许
// 返回 true 表示允许，false 表示拒绝
func (g *Gater) InterceptAccept(id types.PeerID) bool {
	if g.IsBlocked(id) {
		g.interceptedAccepts.Add(1)
		return false
	}
	return true
}

// BlockedPeers 返回所有被阻止的节点列表（用于调试）
func (g *Gater) BlockedPeers() []types.PeerID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	peers := make([]types.PeerID, 0, len(g.blocked))
	for _, id := range g.blocked {
		peers = append(peers, id)
	}
	return peers
}

// Clear 清空黑名单
func (g *Gater) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.blocked = make(map[string]types.PeerID)
}

// ============================================================================
// 统计
// ============================================================================

// GaterStats 门控统计
type GaterStats struct {
	BlockedPeers       int
	InterceptedDials   int64
	InterceptedAccepts int64
}

// Stats 返回统计信息
func (g *Gater) Stats() GaterStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return GaterStats{
		BlockedPeers:       len(g.blocked),
		InterceptedDials:   g.interceptedDials.Load(),
		InterceptedAccepts: g.interceptedAccepts.Load(),
	}
}
