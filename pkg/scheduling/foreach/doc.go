/*
Package foreach runs a body over a sequence with bounded concurrency.

ForEachWithConfig admits elements through a semaphore holding Limit permits
and tracks running bodies with a group barrier:

	err := foreach.ForEachWithConfig(foreach.Config{Limit: 4}, slices.Values(jobs), func(j Job) {
		process(j)
	})

The dispatching goroutine suspends whenever Limit bodies are in flight and,
after the last element, waits on the group until the entrant count drops to
zero.

Completion Barrier:

By default elements enter the group from their own goroutine and the final
wait does not look at the current count. If every body has already left by
the time the caller reaches the wait, nothing will ever bring the count back
to zero and the call never returns. An empty sequence always hangs this
way. Set Config.SafeBarrier to enter on the dispatching goroutine and skip
the wait when the group is already empty:

	cfg := foreach.Config{Limit: 4, SafeBarrier: true}
	_ = foreach.ForEachWithConfig(cfg, seq, body) // returns even for an empty seq

Failures:

ForEach does not collect per-element errors; the body reports its own
outcome. Only an invalid Config produces an error, wrapping
errors.ErrInvalidConfiguration.
*/
package foreach
