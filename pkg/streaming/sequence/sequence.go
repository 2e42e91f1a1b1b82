package sequence

import (
	"context"
	"sync"
	"time"
)

// Source is a lazy, pull-based sequence.
type Source[T any] interface {
	// Next returns the next element and true, or zero value and false if no more elements.
	Next(ctx context.Context) (T, bool, error)
	// Close closes the source and releases resources.
	Close() error
}

// countingSource yields 1..n, sleeping before every pull.
type countingSource struct {
	mu    sync.Mutex
	n     int
	i     int
	delay time.Duration
}

// Counting returns a Source of the integers 1..n. Every pull, including the
// one that reports exhaustion, first sleeps for delay; a canceled context
// interrupts the sleep and is returned as the error. n <= 0 yields nothing.
func Counting(n int, delay time.Duration) Source[int] {
	return &countingSource{n: n, delay: delay}
}

func (s *countingSource) Next(ctx context.Context) (int, bool, error) {
	if err := sleep(ctx, s.delay); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.i >= s.n {
		return 0, false, nil
	}
	s.i++
	return s.i, true, nil
}

func (s *countingSource) Close() error {
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sliceSource implements Source for slices.
type sliceSource[T any] struct {
	mu    sync.Mutex
	slice []T
	index int
}

// FromSlice creates a Source over the elements of slice.
func FromSlice[T any](slice []T) Source[T] {
	return &sliceSource[T]{slice: slice}
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.slice) {
		return zero, false, nil
	}
	v := s.slice[s.index]
	s.index++
	return v, true, nil
}

func (s *sliceSource[T]) Close() error {
	return nil
}

// Func adapts a function with the Next signature to a Source.
type Func[T any] func(ctx context.Context) (T, bool, error)

// Next calls f.
func (f Func[T]) Next(ctx context.Context) (T, bool, error) {
	return f(ctx)
}

// Close is a no-op.
func (f Func[T]) Close() error {
	return nil
}
