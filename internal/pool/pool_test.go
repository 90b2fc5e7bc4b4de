package pool

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	var n int64
	for i := 0; i < 50; i++ {
		p.Submit(func() { atomic.AddInt64(&n, 1) })
	}
	p.Wait()
	if n != 50 {
		t.Errorf("n = %d, want 50", n)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const limit = 3
	p := New(limit)
	var cur, maxSeen int64
	for i := 0; i < 30; i++ {
		p.Submit(func() {
			c := atomic.AddInt64(&cur, 1)
			for {
				m := atomic.LoadInt64(&maxSeen)
				if c <= m || atomic.CompareAndSwapInt64(&maxSeen, m, c) {
					break
				}
			}
			atomic.AddInt64(&cur, -1)
		})
	}
	p.Wait()
	if maxSeen > limit {
		t.Errorf("observed concurrency %d exceeds limit %d", maxSeen, limit)
	}
}

func TestNewClampsNonPositiveConcurrency(t *testing.T) {
	p := New(0)
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	p.Wait()
	select {
	case <-done:
	default:
		t.Error("task submitted to New(0) pool never ran")
	}
}
