package resource

import (
	"context"
	"sync"
)

// Store keeps the last loaded value of a collection. Every load and patch takes a generation number;
// a load that finishes after a newer load or patch has committed is dropped.
type Store[T any] struct {
	mu        sync.RWMutex
	issued    uint64
	committed uint64
	value     T
	loaded    bool
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// commit stores v unless something newer already committed.
func (s *Store[T]) commit(gen uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.committed {
		return false
	}
	s.committed = gen
	s.value = v
	s.loaded = true
	return true
}

// Load runs fetch and commits its result. It returns the value the store holds afterwards and whether
// this load was the one that set it.
func (s *Store[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, bool, error) {
	gen := s.begin()
	v, err := fetch(ctx)
	if err != nil {
		cur, _ := s.Snapshot()
		return cur, false, err
	}
	applied := s.commit(gen, v)
	cur, _ := s.Snapshot()
	return cur, applied, nil
}

// Patch applies an optimistic change right away. Loads started before the patch can no longer overwrite it.
func (s *Store[T]) Patch(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.committed = s.issued
	s.value = fn(s.value)
	s.loaded = true
	return s.value
}

// Reconcile re-fetches in the background after a patch; the fetched value replaces the patched one.
// The returned channel is closed when the fetch is done. Errors keep the patched value.
func (s *Store[T]) Reconcile(ctx context.Context, fetch func(context.Context) (T, error), done func(T, error)) <-chan struct{} {
	finished := make(chan struct{})
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(finished)
		v, _, err := s.Load(ctx, fetch)
		if done != nil {
			done(v, err)
		}
	}()
	return finished
}

func (s *Store[T]) Snapshot() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.loaded
}
