package metrics_test

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/coopsync/pkg/metrics"
)

// Example_tally shows reading totals back from an in-memory sink.
func Example_tally() {
	tally := &metrics.Tally{}

	tally.PermitReleased("limiter", true)
	tally.PermitReleased("limiter", false)
	tally.TaskFinished("batch", time.Millisecond)

	snap := tally.Snapshot()
	fmt.Printf("signals=%d handoffs=%d tasks=%d\n", snap.Signals, snap.Handoffs, snap.Tasks)

	// Output:
	// signals=2 handoffs=1 tasks=1
}

// Example_customRegistry demonstrates using a custom Prometheus registry.
func Example_customRegistry() {
	registry := metrics.NewRegistry(prometheus.NewRegistry())

	registry.OutcomeWritten("state", false)
	registry.OutcomeWritten("state", true)
	registry.OutcomeWritten("state", true)

	fmt.Println(testutil.ToFloat64(registry.CombinerOutcomes.WithLabelValues("state", "failure")))

	// Output:
	// 2
}
