// Package claim tracks which candidate records have already been consumed.
package claim

import (
	"context"
	"sync"
	"sync/atomic"
)

// Registry records claimed candidate indexes so each is used at most once.
type Registry interface {
	// Claim atomically marks idx as taken.
	// Returns true if idx was newly claimed, false if it was already taken.
	Claim(ctx context.Context, idx int) bool

	// Claimed reports whether idx is taken.
	Claimed(idx int) bool

	// Unclaimed lists the free indexes in [0, n) in ascending order.
	Unclaimed(n int) []int

	// Size returns how many indexes are taken.
	Size() int64
}

// inMemoryRegistry implements Registry with a map guarded by a mutex.
type inMemoryRegistry struct {
	mu       sync.RWMutex
	taken    map[int]struct{}
	capacity int
	size     atomic.Int64
}

// NewInMemoryRegistry creates a new in-memory registry with configuration options.
func NewInMemoryRegistry(opts ...Option) Registry {
	r := &inMemoryRegistry{}

	for _, opt := range opts {
		opt(r)
	}

	r.taken = make(map[int]struct{}, r.capacity)
	return r
}

// Claim atomically marks idx as taken.
func (r *inMemoryRegistry) Claim(_ context.Context, idx int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.taken[idx]; exists {
		return false
	}
	r.taken[idx] = struct{}{}
	r.size.Add(1)
	return true
}

// Claimed reports whether idx is taken.
func (r *inMemoryRegistry) Claimed(idx int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.taken[idx]
	return ok
}

// Unclaimed lists the free indexes in [0, n) in ascending order.
func (r *inMemoryRegistry) Unclaimed(n int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, max(n-len(r.taken), 0))
	for i := 0; i < n; i++ {
		if _, ok := r.taken[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// Size returns the current number of claimed indexes.
func (r *inMemoryRegistry) Size() int64 {
	return r.size.Load()
}
