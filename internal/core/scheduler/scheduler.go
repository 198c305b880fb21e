package scheduler

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-mmst/pkg/lib/log"
)

var logger = log.Logger("core/scheduler")

// Job 队列中的任务
//
// ctx 在任务超时或调度器关闭时被取消。
type Job func(ctx context.Context)

// Outcome 任务结束方式
type Outcome int

const (
	// OutcomeCompleted 任务在超时前返回
	OutcomeCompleted Outcome = iota
	// OutcomeAbandoned 任务超时被放弃
	OutcomeAbandoned
	// OutcomeStopped 调度器关闭时任务仍在执行
	OutcomeStopped
)

// String 返回结束方式名称
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeAbandoned:
		return "abandoned"
	case OutcomeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats 调度器统计
type Stats struct {
	Enqueued  uint64
	Completed uint64
	Abandoned uint64
	Dropped   uint64
	Pending   int
	Running   bool
}

// Scheduler 单飞运行队列
type Scheduler struct {
	cfg   Config
	clock clock.Clock

	// onDone 每个任务结束后调用
	onDone func(Outcome)

	mu      sync.Mutex
	queue   []Job
	running bool
	started bool
	closed  bool
	stats   Stats

	ctx    context.Context
	cancel context.CancelFunc
	wakeCh chan struct{}
	wg     sync.WaitGroup
}

// Option 调度器选项
type Option func(*Scheduler)

// WithClock 设置时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithOnDone 设置任务结束回调
func WithOnDone(fn func(Outcome)) Option {
	return func(s *Scheduler) {
		s.onDone = fn
	}
}

// New 创建调度器
func New(cfg Config, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:    cfg,
		clock:  clock.New(),
		ctx:    ctx,
		cancel: cancel,
		wakeCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start 启动执行循环
//
// Start 之前入队的任务在启动后按顺序执行。ctx 只用于启动本身。
func (s *Scheduler) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	s.wg.Add(1)
	go s.loop()

	logger.Debug("调度器已启动", "queueTimeout", s.cfg.QueueTimeout)
	return nil
}

// Enqueue 将任务加入队尾
func (s *Scheduler) Enqueue(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSchedulerClosed
	}
	s.queue = append(s.queue, job)
	s.stats.Enqueued++
	s.mu.Unlock()

	s.wake()
	return nil
}

// Close 关闭调度器
//
// 丢弃排队任务，取消执行中任务的 context，并等待执行循环退出。
// 执行中的任务本身不被等待。
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dropped := len(s.queue)
	s.stats.Dropped += uint64(dropped)
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	logger.Debug("调度器已关闭", "dropped", dropped)
	return nil
}

// Stats 返回统计信息
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats
	st.Pending = len(s.queue)
	st.Running = s.running
	return st
}

// ============================================================================
//                              内部方法
// ============================================================================

// loop 执行循环
func (s *Scheduler) loop() {
	defer s.wg.Done()

	for {
		job, ok := s.next()
		if !ok {
			select {
			case <-s.ctx.Done():
				return
			case <-s.wakeCh:
			}
			continue
		}

		outcome := s.execute(job)

		s.mu.Lock()
		s.running = false
		switch outcome {
		case OutcomeCompleted:
			s.stats.Completed++
		case OutcomeAbandoned:
			s.stats.Abandoned++
		}
		s.mu.Unlock()

		if s.onDone != nil {
			s.onDone(outcome)
		}
		if outcome == OutcomeStopped {
			return
		}
	}
}

// next 取出队首任务
func (s *Scheduler) next() (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.queue) == 0 {
		return nil, false
	}
	job := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.running = true
	return job, true
}

// execute 在超时内执行任务
func (s *Scheduler) execute(job Job) Outcome {
	ctx, cancel := s.clock.WithTimeout(s.ctx, s.cfg.QueueTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		job(ctx)
	}()

	select {
	case <-done:
		return OutcomeCompleted
	case <-ctx.Done():
	}

	// 任务与超时同时结束时以任务结果为准
	select {
	case <-done:
		return OutcomeCompleted
	default:
	}

	if s.ctx.Err() != nil {
		return OutcomeStopped
	}
	logger.Warn("任务超时，已放弃", "queueTimeout", s.cfg.QueueTimeout)
	return OutcomeAbandoned
}

// wake 唤醒执行循环
func (s *Scheduler) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}
