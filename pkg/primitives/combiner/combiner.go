package combiner

import (
	"errors"
	"sync"

	"github.com/vnykmshr/coopsync/pkg/metrics"
)

// ErrConcurrentWaiter is the panic value raised when a second
// WaitForCompletion starts while another is still suspended.
var ErrConcurrentWaiter = errors.New("combiner: concurrent WaitForCompletion")

// Config holds configuration options for creating a Combiner.
type Config struct {
	// Name labels the combiner in metrics.
	Name string

	// Metrics receives the written outcome. Nil disables reporting.
	Metrics metrics.Sink
}

// Combiner is a single-slot rendezvous between one producer and one
// consumer. The producer writes an outcome once: nil for success or the
// failure error. The consumer may poll for an early failure with CheckError
// any number of times and finally blocks in WaitForCompletion for the
// outcome.
type Combiner struct {
	mu      sync.Mutex
	written bool
	result  error
	waiter  chan error

	name    string
	metrics metrics.Sink
}

// New creates an empty Combiner.
func New() *Combiner {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an empty Combiner from config.
func NewWithConfig(config Config) *Combiner {
	return &Combiner{
		name:    config.Name,
		metrics: metrics.OrNoop(config.Metrics),
	}
}

// Write records the outcome, nil meaning success, and resumes a suspended
// WaitForCompletion if there is one. Write never blocks. Only the first call
// has any effect; the stored outcome is never overwritten. It reports whether
// this call's outcome was accepted.
func (c *Combiner) Write(err error) bool {
	c.mu.Lock()
	if c.written {
		c.mu.Unlock()
		return false
	}
	c.written = true
	c.result = err
	waiter := c.waiter
	c.waiter = nil
	c.mu.Unlock()

	if waiter != nil {
		waiter <- err
	}
	c.metrics.OutcomeWritten(c.name, err != nil)
	return true
}

// CheckError returns the failure if one has been written, and nil if the
// outcome is still unset or is a success.
func (c *Combiner) CheckError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// WaitForCompletion returns the outcome, suspending until Write delivers it
// if necessary. Only one caller may be suspended at a time; a second
// concurrent call panics with ErrConcurrentWaiter.
func (c *Combiner) WaitForCompletion() error {
	c.mu.Lock()
	if c.written {
		err := c.result
		c.mu.Unlock()
		return err
	}
	if c.waiter != nil {
		c.mu.Unlock()
		panic(ErrConcurrentWaiter)
	}
	waiter := make(chan error, 1)
	c.waiter = waiter
	c.mu.Unlock()

	return <-waiter
}

// Done reports whether an outcome has been written.
func (c *Combiner) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written
}
