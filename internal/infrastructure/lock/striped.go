// Package lock provides an in-process ports.Locker for single-instance
// deployments and tests.
package lock

import (
	"context"
	"hash/fnv"
	"time"
)

const (
	defaultStripes = 64
	defaultWait    = 5 * time.Second
)

// Striped serializes work per key using a fixed set of semaphores. Keys are
// mapped onto stripes with FNV-32a, so two keys may share a stripe; that only
// costs throughput as long as a caller holds one key at a time.
type Striped struct {
	stripes []chan struct{}
	wait    time.Duration
}

// NewStriped creates a Striped lock with n stripes whose acquisitions give up
// after wait. Non-positive values select the defaults.
func NewStriped(n int, wait time.Duration) *Striped {
	if n <= 0 {
		n = defaultStripes
	}
	if wait <= 0 {
		wait = defaultWait
	}
	s := &Striped{stripes: make([]chan struct{}, n), wait: wait}
	for i := range s.stripes {
		s.stripes[i] = make(chan struct{}, 1)
	}
	return s
}

// Lock blocks until the stripe owning key is free, ctx is done or the wait
// budget runs out.
func (s *Striped) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, s.wait)
	defer cancel()

	ch := s.stripes[s.stripeIndex(key)]
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// stripeIndex maps a key deterministically to a stripe.
func (s *Striped) stripeIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.stripes)))
}
