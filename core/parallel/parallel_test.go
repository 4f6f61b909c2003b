package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllItems(t *testing.T) {
	tests := []struct {
		name  string
		items int
	}{
		{name: "zero items", items: 0},
		{name: "single item", items: 1},
		{name: "fewer items than cores", items: 3},
		{name: "many items", items: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited int64
			Parallelize(tt.items, func(start, end int) {
				atomic.AddInt64(&visited, int64(end-start))
			})
			if visited != int64(tt.items) {
				t.Errorf("visited %d items, want %d", visited, tt.items)
			}
		})
	}
}

func TestParallelizeWithThresholdSequentialBelow(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("sequential call got range [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("below threshold ran %d chunks, want 1", calls)
	}
}
