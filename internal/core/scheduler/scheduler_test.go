package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStarted(t *testing.T, cfg Config, opts ...Option) *Scheduler {
	t.Helper()
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestNew 测试配置校验
func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, s.cfg.QueueTimeout)
	assert.ErrorIs(t, s.Enqueue(nil), ErrNilJob)

	t.Log("✅ 构造测试通过")
}

// TestScheduler_FIFOSingleFlight 测试先进先出且同一时刻只执行一个任务
func TestScheduler_FIFOSingleFlight(t *testing.T) {
	s := newStarted(t, DefaultConfig())

	var (
		mu      sync.Mutex
		order   []int
		active  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		require.NoError(t, s.Enqueue(func(context.Context) {
			defer wg.Done()
			n := active.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			active.Add(-1)
		}))
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	assert.Equal(t, int32(1), maxSeen.Load())

	require.Eventually(t, func() bool { return s.Stats().Completed == 10 }, time.Second, time.Millisecond)
	assert.Equal(t, uint64(10), s.Stats().Enqueued)

	t.Log("✅ FIFO 单飞测试通过")
}

// TestScheduler_EnqueueBeforeStart 测试启动前入队的任务在启动后执行
func TestScheduler_EnqueueBeforeStart(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	defer s.Close()

	ran := make(chan struct{})
	require.NoError(t, s.Enqueue(func(context.Context) { close(ran) }))

	select {
	case <-ran:
		t.Fatal("job ran before start")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run after start")
	}

	t.Log("✅ 启动前入队测试通过")
}

// TestScheduler_Abandon 测试超时任务被放弃且不阻塞后续任务
func TestScheduler_Abandon(t *testing.T) {
	mock := clock.NewMock()
	outcomes := make(chan Outcome, 4)
	s := newStarted(t, Config{QueueTimeout: 3 * time.Second},
		WithClock(mock),
		WithOnDone(func(o Outcome) { outcomes <- o }))

	stalled := make(chan struct{})
	defer close(stalled)

	jobCtx := make(chan context.Context, 1)
	require.NoError(t, s.Enqueue(func(ctx context.Context) {
		jobCtx <- ctx
		// 忽略 ctx，模拟卡住的拨号
		<-stalled
	}))

	second := make(chan struct{})
	require.NoError(t, s.Enqueue(func(context.Context) { close(second) }))

	ctx := <-jobCtx
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case <-second:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
	assert.Equal(t, OutcomeAbandoned, <-outcomes)
	assert.Equal(t, OutcomeCompleted, <-outcomes)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Abandoned)
	assert.Equal(t, uint64(1), stats.Completed)

	t.Log("✅ 超时放弃测试通过")
}

// TestScheduler_Close 测试关闭时丢弃排队任务并取消执行中任务
func TestScheduler_Close(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, s.Enqueue(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}))

	var ranAfter atomic.Bool
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Enqueue(func(context.Context) { ranAfter.Store(true) }))
	}

	<-started
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running job not cancelled")
	}

	time.Sleep(20 * time.Millisecond)
	assert.False(t, ranAfter.Load())
	assert.Equal(t, uint64(3), s.Stats().Dropped)
	assert.Equal(t, 0, s.Stats().Pending)

	assert.ErrorIs(t, s.Enqueue(func(context.Context) {}), ErrSchedulerClosed)
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerClosed)

	t.Log("✅ 关闭测试通过")
}

// TestOutcome_String 测试结束方式名称
func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "completed", OutcomeCompleted.String())
	assert.Equal(t, "abandoned", OutcomeAbandoned.String())
	assert.Equal(t, "stopped", OutcomeStopped.String())
	assert.Equal(t, "unknown", Outcome(99).String())

	t.Log("✅ Outcome 测试通过")
}
