package pool

import (
	"sync"
	"testing"
	"time"
)

func TestPriorityPoolDrainsHighBeforeLow(t *testing.T) {
	p := NewPriority(1) // single worker makes ordering deterministic
	p.Start()

	var mu sync.Mutex
	var order []string

	// Hold the single worker busy while both queues fill up.
	blocker := make(chan struct{})
	p.Submit(High, func() { <-blocker })

	p.Submit(Low, func() {
		mu.Lock()
		order = append(order, "low")
		mu.Unlock()
	})
	p.Submit(High, func() {
		mu.Lock()
		order = append(order, "high")
		mu.Unlock()
	})

	time.Sleep(10 * time.Millisecond) // let both Submits land in their queues
	close(blocker)
	p.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Errorf("execution order = %v, want [high low]", order)
	}
}

func TestPriorityPoolAllTasksRun(t *testing.T) {
	p := NewPriority(4)
	p.Start()
	var mu sync.Mutex
	seen := map[int]bool{}
	for i := 0; i < 20; i++ {
		i := i
		prio := Low
		if i%2 == 0 {
			prio = High
		}
		p.Submit(prio, func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		})
	}
	p.Wait()
	if len(seen) != 20 {
		t.Errorf("len(seen) = %d, want 20", len(seen))
	}
	p.Close()
}
