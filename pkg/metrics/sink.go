package metrics

import (
	"sync/atomic"
	"time"
)

// Sink receives events from the synchronization primitives. The name
// argument is the instance name given in the component's Config.
//
// Implementations must be safe for concurrent use and must not block: they
// are called while the primitive is between suspension points.
type Sink interface {
	// PermitQueued is called when a semaphore Wait finds no free permit and
	// suspends.
	PermitQueued(name string)

	// PermitAcquired is called when a semaphore Wait is admitted. queued is
	// true when the caller had to suspend first.
	PermitAcquired(name string, queued bool)

	// PermitReleased is called for every semaphore Signal. handedOff is true
	// when the permit went straight to a queued waiter.
	PermitReleased(name string, handedOff bool)

	// EntrantsChanged reports a group's entrant count after Enter or Leave.
	EntrantsChanged(name string, entrants int)

	// WaitersReleased reports how many group waiters a zero transition woke.
	WaitersReleased(name string, n int)

	// OutcomeWritten is called when a combiner accepts its outcome.
	OutcomeWritten(name string, failed bool)

	// TaskFinished is called when a for-each body returns, before its
	// group Leave.
	TaskFinished(name string, d time.Duration)
}

// Noop discards every event.
type Noop struct{}

func (Noop) PermitQueued(string) {}
func (Noop) PermitAcquired(string, bool) {}
func (Noop) PermitReleased(string, bool) {}
func (Noop) EntrantsChanged(string, int) {}
func (Noop) WaitersReleased(string, int) {}
func (Noop) OutcomeWritten(string, bool) {}
func (Noop) TaskFinished(string, time.Duration) {}

// Tally keeps in-memory totals of every event kind. The zero value is ready
// to use. One Tally is normally shared by all primitives of a run.
type Tally struct {
	acquired  atomic.Int64
	queued    atomic.Int64
	signals   atomic.Int64
	handoffs  atomic.Int64
	wakes     atomic.Int64
	released  atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64
	tasks     atomic.Int64
}

func (t *Tally) PermitQueued(string) {}

func (t *Tally) PermitAcquired(_ string, queued bool) {
	t.acquired.Add(1)
	if queued {
		t.queued.Add(1)
	}
}

func (t *Tally) PermitReleased(_ string, handedOff bool) {
	t.signals.Add(1)
	if handedOff {
		t.handoffs.Add(1)
	}
}

func (t *Tally) EntrantsChanged(string, int) {}

func (t *Tally) WaitersReleased(_ string, n int) {
	t.wakes.Add(1)
	t.released.Add(int64(n))
}

func (t *Tally) OutcomeWritten(_ string, failed bool) {
	if failed {
		t.failures.Add(1)
	} else {
		t.successes.Add(1)
	}
}

func (t *Tally) TaskFinished(string, time.Duration) {
	t.tasks.Add(1)
}

// Snapshot is a point-in-time copy of a Tally.
type Snapshot struct {
	Acquired  int64 // semaphore Waits admitted
	Queued    int64 // of which suspended first
	Signals   int64 // semaphore Signals
	Handoffs  int64 // of which went straight to a waiter
	Wakes     int64 // group zero transitions
	Released  int64 // group waiters resumed
	Successes int64 // combiner success outcomes
	Failures  int64 // combiner failure outcomes
	Tasks     int64 // for-each bodies finished
}

// Snapshot returns the current totals.
func (t *Tally) Snapshot() Snapshot {
	return Snapshot{
		Acquired:  t.acquired.Load(),
		Queued:    t.queued.Load(),
		Signals:   t.signals.Load(),
		Handoffs:  t.handoffs.Load(),
		Wakes:     t.wakes.Load(),
		Released:  t.released.Load(),
		Successes: t.successes.Load(),
		Failures:  t.failures.Load(),
		Tasks:     t.tasks.Load(),
	}
}

type multi []Sink

// Multi fans every event out to all sinks in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) PermitQueued(name string) {
	for _, s := range m {
		s.PermitQueued(name)
	}
}

func (m multi) PermitAcquired(name string, queued bool) {
	for _, s := range m {
		s.PermitAcquired(name, queued)
	}
}

func (m multi) PermitReleased(name string, handedOff bool) {
	for _, s := range m {
		s.PermitReleased(name, handedOff)
	}
}

func (m multi) EntrantsChanged(name string, entrants int) {
	for _, s := range m {
		s.EntrantsChanged(name, entrants)
	}
}

func (m multi) WaitersReleased(name string, n int) {
	for _, s := range m {
		s.WaitersReleased(name, n)
	}
}

func (m multi) OutcomeWritten(name string, failed bool) {
	for _, s := range m {
		s.OutcomeWritten(name, failed)
	}
}

func (m multi) TaskFinished(name string, d time.Duration) {
	for _, s := range m {
		s.TaskFinished(name, d)
	}
}
