package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-mmst"
	"github.com/dep2p/go-mmst/config"
)

var errDialRefused = errors.New("dial refused")

type simParams struct {
	size        int
	idLen       int
	seed        uint64
	dialLatency time.Duration
	dialFail    float64
}

// simulation 内存网络
type simulation struct {
	params simParams

	mu    sync.Mutex
	rng   *mrand.Rand
	ids   []mmst.PeerID
	nodes map[string]*mmst.Overlay
	links []*link
}

// link 一条双向内存连接，两端共享关闭通知
type link struct {
	a, b mmst.PeerID
	done chan struct{}
	once sync.Once
}

func (l *link) Done() <-chan struct{} { return l.done }

func (l *link) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func newSimulation(p simParams) *simulation {
	s := p.seed
	if s == 0 {
		s = mrand.Uint64()
	}
	return &simulation{
		params: p,
		rng:    mrand.New(mrand.NewPCG(s, s>>1)),
		nodes:  make(map[string]*mmst.Overlay),
	}
}

// start 创建并启动全部节点
func (s *simulation) start(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) error {
	for i := 0; i < s.params.size; i++ {
		id := make(mmst.PeerID, s.params.idLen)
		if _, err := rand.Read(id); err != nil {
			return err
		}
		s.ids = append(s.ids, id)
	}

	for i, id := range s.ids {
		opts := []mmst.Option{mmst.WithConfig(cfg)}
		if s.params.seed != 0 {
			opts = append(opts, mmst.WithRandSeed(s.params.seed+uint64(i)))
		}
		if reg != nil && i == 0 {
			opts = append(opts, mmst.WithMetrics(reg))
		}
		o, err := mmst.New(id, s.lookup(), s.connector(id), opts...)
		if err != nil {
			return fmt.Errorf("创建节点 %s: %w", id.ShortString(), err)
		}
		s.nodes[id.Key()] = o
	}

	for _, id := range s.ids {
		if err := s.nodes[id.Key()].Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// lookup 每个节点都能发现全部节点，分批返回
func (s *simulation) lookup() mmst.Lookup {
	return mmst.LookupFunc(func(ctx context.Context) (<-chan []mmst.PeerID, error) {
		ch := make(chan []mmst.PeerID)
		go func() {
			defer close(ch)
			const batch = 8
			for i := 0; i < len(s.ids); i += batch {
				end := min(i+batch, len(s.ids))
				select {
				case ch <- s.ids[i:end]:
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch, nil
	})
}

// connector 拨号即在对端调用 HandleIncoming
func (s *simulation) connector(from mmst.PeerID) mmst.Connector {
	return mmst.ConnectFunc(func(ctx context.Context, to mmst.PeerID) (mmst.Connection, error) {
		select {
		case <-time.After(s.params.dialLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		s.mu.Lock()
		remote := s.nodes[to.Key()]
		fail := s.rng.Float64() < s.params.dialFail
		s.mu.Unlock()
		if remote == nil || fail {
			return nil, errDialRefused
		}

		l := &link{a: from, b: to, done: make(chan struct{})}
		if err := remote.HandleIncoming(from, l); err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.links = append(s.links, l)
		s.mu.Unlock()
		return l, nil
	})
}

// dropRandom 随机断开一条仍然存活的连接
func (s *simulation) dropRandom() {
	s.mu.Lock()
	alive := s.links[:0]
	for _, l := range s.links {
		select {
		case <-l.done:
		default:
			alive = append(alive, l)
		}
	}
	s.links = alive
	if len(alive) == 0 {
		s.mu.Unlock()
		return
	}
	l := alive[s.rng.IntN(len(alive))]
	s.mu.Unlock()

	_ = l.Close()
	logger.Info("断开连接", "a", l.a.ShortString(), "b", l.b.ShortString())
}

func (s *simulation) close() {
	for _, o := range s.nodes {
		_ = o.Close()
	}
}

// simStats 全网统计
type simStats struct {
	edges      int
	avgDegree  float64
	isolated   int
	components int
	farLinks   int
	noPeers    uint64
	abandoned  uint64
}

// stats 按各节点的已连接集合构建无向图并统计
func (s *simulation) stats() simStats {
	var st simStats
	adj := make(map[string]map[string]bool, len(s.ids))
	for _, id := range s.ids {
		adj[id.Key()] = make(map[string]bool)
	}

	degreeSum := 0
	for _, id := range s.ids {
		o := s.nodes[id.Key()]
		peers := o.ConnectedPeers()
		degreeSum += len(peers)
		if len(peers) == 0 {
			st.isolated++
		}
		if o.HasFarConnection() {
			st.farLinks++
		}
		cs := o.CycleStats()
		st.noPeers += cs.NoPeersReachable
		st.abandoned += cs.Abandoned

		for _, p := range peers {
			if _, ok := adj[p.Key()]; !ok {
				continue
			}
			adj[id.Key()][p.Key()] = true
			adj[p.Key()][id.Key()] = true
		}
	}
	for _, nbrs := range adj {
		st.edges += len(nbrs)
	}
	st.edges /= 2
	if len(s.ids) > 0 {
		st.avgDegree = float64(degreeSum) / float64(len(s.ids))
	}

	seen := make(map[string]bool, len(adj))
	for k := range adj {
		if seen[k] {
			continue
		}
		st.components++
		stack := []string{k}
		seen[k] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for n := range adj[cur] {
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return st
}
