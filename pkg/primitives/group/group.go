package group

import (
	"sync"

	"github.com/vnykmshr/coopsync/pkg/metrics"
)

// Config holds configuration options for creating a Group.
type Config struct {
	// Name labels the group in metrics.
	Name string

	// Metrics receives entrant-count and wake events. Nil disables reporting.
	Metrics metrics.Sink
}

// Group is a completion barrier. It counts entrants between Enter and Leave
// and, whenever the count lands on zero, resumes every caller suspended in
// Wait at that moment.
//
// Wait always suspends, even if the count is already zero: a Wait issued
// after the last Leave is only resumed by a later Enter/Leave pair that
// brings the count back to zero, and blocks forever if none comes. Use
// WaitChecked for a barrier that returns immediately when nothing is inside.
type Group struct {
	mu      sync.Mutex
	counter int
	queue   []chan struct{}

	name    string
	metrics metrics.Sink
}

// New creates an empty Group.
func New() *Group {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an empty Group from config.
func NewWithConfig(config Config) *Group {
	return &Group{
		name:    config.Name,
		metrics: metrics.OrNoop(config.Metrics),
	}
}

// Enter increments the entrant count.
func (g *Group) Enter() {
	g.mu.Lock()
	g.counter++
	g.settle()
}

// Leave decrements the entrant count. Leave is not checked against Enter;
// unpaired calls drive the count negative.
func (g *Group) Leave() {
	g.mu.Lock()
	g.counter--
	g.settle()
}

// settle releases the queue if the count is zero. Must be called with g.mu
// held; it unlocks before resuming anyone. The entrant gauge is reported
// under the lock so updates land in count order.
func (g *Group) settle() {
	entrants := g.counter
	var released []chan struct{}
	if entrants == 0 {
		released = g.queue
		g.queue = nil
	}
	g.metrics.EntrantsChanged(g.name, entrants)
	g.mu.Unlock()

	if entrants != 0 {
		return
	}
	for _, ch := range released {
		close(ch)
	}
	g.metrics.WaitersReleased(g.name, len(released))
}

// Wait suspends the caller until the next time the entrant count reaches
// zero through Enter or Leave. It does not look at the current count.
func (g *Group) Wait() {
	g.mu.Lock()
	<-g.enqueue()
}

// WaitChecked returns immediately if the entrant count is zero, and
// otherwise behaves like Wait.
func (g *Group) WaitChecked() {
	g.mu.Lock()
	if g.counter == 0 {
		g.mu.Unlock()
		return
	}
	<-g.enqueue()
}

// enqueue appends a one-shot waiter and unlocks. Must be called with g.mu held.
func (g *Group) enqueue() <-chan struct{} {
	ready := make(chan struct{})
	g.queue = append(g.queue, ready)
	g.mu.Unlock()
	return ready
}

// Count returns the current entrant count.
func (g *Group) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// Waiting returns the number of suspended callers.
func (g *Group) Waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}
