/*
Package coopsync provides cooperative synchronization primitives and the
drivers built on them: a bounded for-each over a sequence and a race between
a streaming sum and a background check.

Primitives (pkg/primitives):
  - semaphore: Counting semaphore with FIFO hand-off to suspended waiters
  - group: Completion barrier released when its entrant count reaches zero
  - combiner: Write-once outcome shared by one producer and one consumer

Scheduling (pkg/scheduling):
  - foreach: Run a body per element with a bounded number in flight
  - race: Sum a sequence while polling a background check for failure

Streaming (pkg/streaming):
  - sequence: Pull-based sources with per-pull pacing

Support:
  - metrics: Injectable event sink with in-memory and Prometheus backends
  - reporting: Per-element result reporters for consoles and Redis

Example usage:

	import (
		"github.com/vnykmshr/coopsync/pkg/scheduling/foreach"
		"github.com/vnykmshr/coopsync/pkg/scheduling/race"
	)

	cfg := foreach.Config{Limit: 4, SafeBarrier: true}
	foreach.Slice(cfg, items, func(n int) {
		out := race.Run(ctx, race.Config{Source: source(n), Check: check})
		report(out)
	})
*/
package coopsync
