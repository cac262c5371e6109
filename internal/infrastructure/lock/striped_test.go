package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStriped_SerializesSameKey(t *testing.T) {
	l := NewStriped(8, time.Second)

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "invoice:1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen)
	}
}

func TestStriped_RespectsContext(t *testing.T) {
	l := NewStriped(1, time.Second)

	unlock, err := l.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Lock(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestStriped_ReleaseAllowsNextHolder(t *testing.T) {
	l := NewStriped(4, time.Second)

	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	unlock2, err := l.Lock(ctx, "k")
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	unlock2()
}

func TestStriped_WaitBudget(t *testing.T) {
	l := NewStriped(1, 20*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer unlock()

	if _, err := l.Lock(context.Background(), "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestStriped_Defaults(t *testing.T) {
	l := NewStriped(0, 0)
	if len(l.stripes) != defaultStripes {
		t.Fatalf("expected %d stripes, got %d", defaultStripes, len(l.stripes))
	}
	if l.wait != defaultWait {
		t.Fatalf("expected wait %v, got %v", defaultWait, l.wait)
	}
	if l.stripeIndex("abc") != l.stripeIndex("abc") {
		t.Fatal("stripe index must be deterministic")
	}
}
