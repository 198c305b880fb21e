package sampler

import (
	"context"
	"slices"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-mmst/internal/util/randutil"
	"github.com/dep2p/go-mmst/pkg/interfaces"
	"github.com/dep2p/go-mmst/pkg/lib/log"
	"github.com/dep2p/go-mmst/pkg/types"
)

var logger = log.Logger("core/sampler")

// 收集结束原因
const (
	reasonComplete  = "complete"
	reasonThreshold = "threshold"
	reasonTimeout   = "timeout"
	reasonCancelled = "cancelled"
	reasonError     = "error"
)

// Sampler 候选节点抽样器
type Sampler struct {
	self  types.PeerID
	cfg   Config
	clock clock.Clock
	rng   randutil.Rand
}

// Option 抽样器选项
type Option func(*Sampler)

// WithClock 设置时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) {
		s.clock = c
	}
}

// WithRand 设置随机源
func WithRand(r randutil.Rand) Option {
	return func(s *Sampler) {
		s.rng = r
	}
}

// New 创建抽样器
func New(self types.PeerID, cfg Config, opts ...Option) (*Sampler, error) {
	if self.IsEmpty() {
		return nil, ErrEmptySelf
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sampler{
		self:  self.Clone(),
		cfg:   cfg,
		clock: clock.New(),
		rng:   randutil.NewRandom(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sample 执行一次发现并返回由近及远排序的样本
//
// ctx 取消时立即停止收集，返回已收集部分的样本；调用方应自行检查 ctx。
// 返回时传给 lookup 的 context 已被取消。
func (s *Sampler) Sample(ctx context.Context, lookup interfaces.Lookup) []types.PeerID {
	candidates, reason := s.collect(ctx, lookup)

	chosen := s.choose(candidates)
	s.sortByDistance(chosen)

	logger.DebugContext(ctx, "抽样完成",
		"reason", reason,
		"discovered", len(candidates),
		"sample", len(chosen))
	return chosen
}

// collect 竞争发现完成、阈值和超时三个条件，返回收集到的候选
func (s *Sampler) collect(ctx context.Context, lookup interfaces.Lookup) ([]types.PeerID, string) {
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := s.clock.Timer(s.cfg.LookupTimeout)
	defer timer.Stop()

	acc := newAccumulator(s.self)

	ch, err := lookup.Lookup(lctx)
	if err != nil {
		logger.DebugContext(ctx, "发现失败，视为完成", "error", err)
		return acc.peers, reasonError
	}
	if ch == nil {
		return acc.peers, reasonComplete
	}

	for acc.len() < s.cfg.SampleSize {
		select {
		case batch, ok := <-ch:
			if !ok {
				return acc.peers, reasonComplete
			}
			acc.add(batch)
		case <-timer.C:
			return acc.peers, reasonTimeout
		case <-ctx.Done():
			return acc.peers, reasonCancelled
		}
	}
	return acc.peers, reasonThreshold
}

// choose 候选多于 SampleSize 时随机抽取 SampleSize 个（不放回）
func (s *Sampler) choose(candidates []types.PeerID) []types.PeerID {
	if len(candidates) <= s.cfg.SampleSize {
		return candidates
	}
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:s.cfg.SampleSize]
}

// sortByDistance 按到自身的 XOR 距离升序稳定排序
func (s *Sampler) sortByDistance(peers []types.PeerID) {
	type ranked struct {
		id   types.PeerID
		dist types.Distance
	}

	rs := make([]ranked, len(peers))
	for i, id := range peers {
		// 长度已在收集阶段校验
		d, _ := types.XORDistance(s.self, id)
		rs[i] = ranked{id: id, dist: d}
	}

	slices.SortStableFunc(rs, func(a, b ranked) int {
		return a.dist.Cmp(b.dist)
	})

	for i := range rs {
		peers[i] = rs[i].id
	}
}

// ============================================================================
//                              accumulator
// ============================================================================

// accumulator 收集候选，过滤自身、重复和长度不一致的 ID
type accumulator struct {
	self  types.PeerID
	seen  map[string]struct{}
	peers []types.PeerID
}

func newAccumulator(self types.PeerID) *accumulator {
	return &accumulator{
		self: self,
		seen: map[string]struct{}{self.Key(): {}},
	}
}

func (a *accumulator) len() int {
	return len(a.peers)
}

func (a *accumulator) add(batch []types.PeerID) {
	for _, id := range batch {
		if id.Len() != a.self.Len() {
			logger.Warn("丢弃长度不一致的候选",
				"peer", id.ShortString(),
				"len", id.Len(),
				"want", a.self.Len())
			continue
		}
		key := id.Key()
		if _, ok := a.seen[key]; ok {
			continue
		}
		a.seen[key] = struct{}{}
		a.peers = append(a.peers, id.Clone())
	}
}
