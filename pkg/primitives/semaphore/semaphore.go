package semaphore

import (
	"sync"

	"github.com/vnykmshr/coopsync/pkg/metrics"
)

// Config holds configuration options for creating a Semaphore.
type Config struct {
	// InitialPermits is the starting permit count. It may be zero or
	// negative; Wait suspends until enough Signals bring it above zero.
	InitialPermits int

	// Name labels the semaphore in metrics.
	Name string

	// Metrics receives wait and signal events. Nil disables reporting.
	Metrics metrics.Sink
}

// Semaphore is a counting semaphore with a FIFO queue of suspended waiters.
//
// A Signal that finds a waiter hands its permit directly to the oldest one,
// so a released permit is never visible to a third caller while someone is
// queued. There is no cancellation: a Wait that is never matched by a Signal
// blocks forever, and waiters still queued when the Semaphore becomes
// unreachable are never resumed.
type Semaphore struct {
	mu      sync.Mutex
	permits int
	queue   []chan struct{}

	name    string
	metrics metrics.Sink
}

// New creates a Semaphore with the given number of initial permits.
func New(initialPermits int) *Semaphore {
	return NewWithConfig(Config{InitialPermits: initialPermits})
}

// NewWithConfig creates a Semaphore from config.
func NewWithConfig(config Config) *Semaphore {
	return &Semaphore{
		permits: config.InitialPermits,
		name:    config.Name,
		metrics: metrics.OrNoop(config.Metrics),
	}
}

// Wait takes a permit. If one is free it is taken without suspending;
// otherwise the caller joins the back of the queue and blocks until a Signal
// selects it.
func (s *Semaphore) Wait() {
	s.mu.Lock()

	// Fast path: permit available immediately
	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		s.metrics.PermitAcquired(s.name, false)
		return
	}

	// Slow path: the permit arrives through Signal's hand-off
	ready := make(chan struct{})
	s.queue = append(s.queue, ready)
	s.mu.Unlock()
	s.metrics.PermitQueued(s.name)

	<-ready
	s.metrics.PermitAcquired(s.name, true)
}

// Signal returns a permit. If the count is then positive and a waiter is
// queued, the permit is transferred to the oldest waiter, which resumes.
// Signal never blocks.
func (s *Semaphore) Signal() {
	s.mu.Lock()

	s.permits++
	if s.permits <= 0 || len(s.queue) == 0 {
		s.mu.Unlock()
		s.metrics.PermitReleased(s.name, false)
		return
	}

	// Waiters only queue while permits <= 0, so a single increment can
	// bring the count to at most 1 here.
	if s.permits != 1 {
		s.mu.Unlock()
		panic("semaphore: surplus permits while waiters are queued")
	}

	s.permits--
	next := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.mu.Unlock()

	close(next)
	s.metrics.PermitReleased(s.name, true)
}

// Permits returns the current permit count. It may be zero or negative.
func (s *Semaphore) Permits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permits
}

// Waiting returns the number of suspended callers.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
