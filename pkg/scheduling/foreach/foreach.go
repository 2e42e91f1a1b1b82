package foreach

import (
	"iter"
	"runtime"
	"slices"
	"time"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
	"github.com/vnykmshr/coopsync/pkg/common/validation"
	"github.com/vnykmshr/coopsync/pkg/metrics"
	"github.com/vnykmshr/coopsync/pkg/primitives/group"
	"github.com/vnykmshr/coopsync/pkg/primitives/semaphore"
)

// Config holds configuration options for ForEachWithConfig.
type Config struct {
	// Limit is the maximum number of bodies running at once.
	// Zero means DefaultLimit(); negative values are rejected.
	Limit int

	// Name labels the batch's semaphore, group and task metrics.
	// Defaults to "foreach".
	Name string

	// Metrics receives events from the batch's semaphore and group and one
	// TaskFinished per body. Nil disables reporting.
	Metrics metrics.Sink

	// SafeBarrier selects the corrected completion barrier: each element
	// enters the group before its goroutine starts and the final wait
	// returns at once if nothing is inside. When false, elements enter from
	// their own goroutine and the final wait is unconditional, so a batch
	// whose bodies have all finished before the wait (including an empty
	// batch) never returns.
	SafeBarrier bool

	// PanicHandler is called with the recovered value when a body panics.
	// The element's permit and group slot are still released. If nil,
	// panics are not recovered.
	PanicHandler func(recovered interface{})
}

// DefaultLimit returns the default concurrency limit: the number of logical
// CPUs usable by the process.
func DefaultLimit() int {
	return runtime.NumCPU()
}

// ForEach runs body for every element of seq with at most DefaultLimit()
// bodies in flight, and returns once the batch's completion barrier opens.
func ForEach[T any](seq iter.Seq[T], body func(T)) error {
	return ForEachWithConfig(Config{}, seq, body)
}

// Slice is ForEachWithConfig over the elements of items.
func Slice[T any](config Config, items []T, body func(T)) error {
	return ForEachWithConfig(config, slices.Values(items), body)
}

// ForEachWithConfig runs body for every element of seq with at most
// config.Limit bodies in flight.
//
// Elements are dispatched in sequence order. For each one the caller first
// takes a permit from the batch semaphore, suspending while Limit bodies are
// running, then hands the element to a new goroutine that enters the batch
// group, runs body, returns the permit and leaves the group. Once seq is
// exhausted the caller waits on the group.
//
// Body failures are the body's concern; the only error returned is for an
// invalid configuration. There is no deadline: a body that never returns
// keeps the batch from finishing.
func ForEachWithConfig[T any](config Config, seq iter.Seq[T], body func(T)) error {
	limit := config.Limit
	if limit == 0 {
		limit = DefaultLimit()
	}
	if err := validation.ValidatePositive("foreach", "limit", limit); err != nil {
		return err
	}
	if seq == nil {
		return gferrors.NewValidationError("foreach", "seq", nil, "cannot be nil")
	}
	if body == nil {
		return gferrors.NewValidationError("foreach", "body", nil, "cannot be nil")
	}

	name := config.Name
	if name == "" {
		name = "foreach"
	}
	sink := metrics.OrNoop(config.Metrics)

	b := &batch[T]{
		name:    name,
		safe:    config.SafeBarrier,
		body:    body,
		onPanic: config.PanicHandler,
		metrics: sink,
		counter: group.NewWithConfig(group.Config{Name: name, Metrics: sink}),
		limiter: semaphore.NewWithConfig(semaphore.Config{
			InitialPermits: limit,
			Name:           name,
			Metrics:        sink,
		}),
	}

	for element := range seq {
		b.limiter.Wait()
		if b.safe {
			b.counter.Enter()
		}
		go b.run(element)
	}

	if b.safe {
		b.counter.WaitChecked()
	} else {
		b.counter.Wait()
	}
	return nil
}

// batch is the state shared by one ForEachWithConfig call and its goroutines.
type batch[T any] struct {
	name    string
	safe    bool
	body    func(T)
	onPanic func(interface{})
	metrics metrics.Sink
	counter *group.Group
	limiter *semaphore.Semaphore
}

func (b *batch[T]) run(element T) {
	if !b.safe {
		b.counter.Enter()
	}

	start := time.Now()
	b.call(element)

	b.limiter.Signal()
	b.metrics.TaskFinished(b.name, time.Since(start))
	b.counter.Leave()
}

func (b *batch[T]) call(element T) {
	if b.onPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				b.onPanic(r)
			}
		}()
	}
	b.body(element)
}
