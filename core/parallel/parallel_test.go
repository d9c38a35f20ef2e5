package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryIndex(t *testing.T) {
	for _, items := range []int{0, 1, 7, 64, 1000} {
		hits := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, h)
			}
		}
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	// At or below the threshold the whole range arrives as one call.
	calls := 0
	ParallelizeWithThreshold(5, 8, func(start, end int) {
		calls++
		if start != 0 || end != 5 {
			t.Errorf("sequential call got range [%d, %d), want [0, 5)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("sequential path made %d calls, want 1", calls)
	}
}

func TestParallelizeWithThresholdParallel(t *testing.T) {
	var total int64
	ParallelizeWithThreshold(100, 8, func(start, end int) {
		atomic.AddInt64(&total, int64(end-start))
	})
	if total != 100 {
		t.Errorf("covered %d items, want 100", total)
	}
}
