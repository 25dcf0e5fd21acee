package settings

import (
	"sync"
	"testing"
)

// TestDynamicProvider_Current は初期値が参照できることを検証する。
func TestDynamicProvider_Current(t *testing.T) {
	p := NewDynamicProvider(Limits{MaxBookmarksPerDay: 20, MaxBookmarksPerUser: 2000})

	limits := p.Current()
	if limits.MaxBookmarksPerDay != 20 {
		t.Errorf("MaxBookmarksPerDay = %d, want %d", limits.MaxBookmarksPerDay, 20)
	}
	if limits.MaxBookmarksPerUser != 2000 {
		t.Errorf("MaxBookmarksPerUser = %d, want %d", limits.MaxBookmarksPerUser, 2000)
	}
}

// TestDynamicProvider_Update は更新後のリクエストに新しい値が適用されることを検証する。
func TestDynamicProvider_Update(t *testing.T) {
	p := NewDynamicProvider(Limits{MaxBookmarksPerDay: 20, MaxBookmarksPerUser: 2000})

	p.Update(Limits{MaxBookmarksPerDay: 1, MaxBookmarksPerUser: 100})

	limits := p.Current()
	if limits.MaxBookmarksPerDay != 1 {
		t.Errorf("MaxBookmarksPerDay = %d, want %d", limits.MaxBookmarksPerDay, 1)
	}
	if limits.MaxBookmarksPerUser != 100 {
		t.Errorf("MaxBookmarksPerUser = %d, want %d", limits.MaxBookmarksPerUser, 100)
	}
}

// TestDynamicProvider_ConcurrentAccess は並行の読み書きが安全であることを検証する。
func TestDynamicProvider_ConcurrentAccess(t *testing.T) {
	p := NewDynamicProvider(Limits{MaxBookmarksPerDay: 20, MaxBookmarksPerUser: 2000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			p.Update(Limits{MaxBookmarksPerDay: n, MaxBookmarksPerUser: n * 10})
		}(i + 1)
		go func() {
			defer wg.Done()
			limits := p.Current()
			if limits.MaxBookmarksPerDay <= 0 {
				t.Error("Current returned invalid limits during concurrent update")
			}
		}()
	}
	wg.Wait()
}
