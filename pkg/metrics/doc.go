// Package metrics provides the observability collaborator injected into
// coopsync primitives.
//
// Every primitive takes a Sink in its Config and reports its transitions to
// it: permits queued, acquired and released by a Semaphore, entrant counts
// and wake-ups of a Group, outcomes written to a combiner and for-each
// bodies finishing. Nothing in the library keeps process-wide counters; a
// caller that wants totals passes a sink and reads it back.
//
// # Sinks
//
//   - Noop: discards everything. Used when Config.Metrics is nil.
//   - Tally: lock-free in-memory totals, read with Snapshot.
//   - Registry: Prometheus counters, gauges and histograms.
//   - Multi: fans events out to several sinks.
//
// # Quick Start
//
//	tally := &metrics.Tally{}
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//
//	err := foreach.ForEachWithConfig(foreach.Config{
//		Limit:   4,
//		Name:    "batch",
//		Metrics: metrics.Multi(tally, reg),
//	}, slices.Values(items), work)
//
//	fmt.Println(tally.Snapshot().Signals)
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
//   - coopsync_semaphore_acquired_total{semaphore_name,path}: permits acquired (path fast|queued)
//   - coopsync_semaphore_signals_total{semaphore_name,handoff}: permits released
//   - coopsync_semaphore_waiting{semaphore_name}: callers suspended in Wait
//   - coopsync_group_entrants{group_name}: tasks between Enter and Leave
//   - coopsync_group_wakes_total{group_name}: transitions of the entrant count to zero
//   - coopsync_group_released_total{group_name}: waiters resumed
//   - coopsync_combiner_outcomes_total{combiner_name,outcome}: outcomes written
//   - coopsync_foreach_tasks_completed_total{batch_name}: bodies finished
//   - coopsync_foreach_task_duration_seconds{batch_name}: body duration
//
// The namespace can be changed with Config.Namespace.
package metrics
