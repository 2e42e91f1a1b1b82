/*
Package scheduling provides drivers that compose the primitives into
concurrent workloads.

Available packages:
  - foreach: Bounded fan-out of a body over a sequence, joined by a group
  - race: One consumer summing a sequence against one detached producer

foreach admits elements through a semaphore sized to its limit and counts
running bodies in a group. Its default completion barrier reproduces a known
defect: the final wait ignores the current count, so an empty batch, or one
whose bodies all finish before the wait, never returns, and a batch can wake
while later elements are still starting. Config.SafeBarrier selects the
corrected barrier.

race shares a combiner between the summing consumer and a producer that
sleeps and then writes its outcome. A written failure stops the consumer at
its next pull.

Basic usage:

	cfg := foreach.Config{Limit: 8, SafeBarrier: true}
	err := foreach.Slice(cfg, jobs, func(j Job) {
		j.Run()
	})
*/
package scheduling
