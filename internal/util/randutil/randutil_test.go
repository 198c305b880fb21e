package randutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNew_Deterministic 测试固定种子产生相同序列
func TestNew_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}

	xs := []int{0, 1, 2, 3, 4, 5, 6, 7}
	ys := []int{0, 1, 2, 3, 4, 5, 6, 7}
	a.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	b.Shuffle(len(ys), func(i, j int) { ys[i], ys[j] = ys[j], ys[i] })
	assert.Equal(t, xs, ys)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, xs)

	t.Log("✅ 固定种子测试通过")
}

// TestLocked_Range 测试 Float64 的取值范围
func TestLocked_Range(t *testing.T) {
	r := NewRandom()
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	t.Log("✅ 取值范围测试通过")
}

// TestLocked_Concurrent 测试并发使用
func TestLocked_Concurrent(t *testing.T) {
	r := NewRandom()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Float64()
			}
		}()
	}
	wg.Wait()

	t.Log("✅ 并发测试通过")
}
