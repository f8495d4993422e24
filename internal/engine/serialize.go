package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Serialized caps the number of in-flight calls to an engine. Callers beyond
// the cap queue until a slot frees or their context ends.
type Serialized struct {
	inner Engine
	sem   *semaphore.Weighted
	limit int
}

// Serialize wraps e so at most n calls run at once. n < 1 is treated as 1.
func Serialize(e Engine, n int) *Serialized {
	if n < 1 {
		n = 1
	}
	return &Serialized{inner: e, sem: semaphore.NewWeighted(int64(n)), limit: n}
}

// Generate waits for a slot, then delegates.
func (s *Serialized) Generate(ctx context.Context, req Request) (Result, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fmt.Errorf("waiting for %s: %w", s.inner.Name(), err)
	}
	defer s.sem.Release(1)
	return s.inner.Generate(ctx, req)
}

// Name returns the wrapped engine's name.
func (s *Serialized) Name() string {
	return s.inner.Name()
}

// Limit returns the concurrency cap.
func (s *Serialized) Limit() int {
	return s.limit
}
