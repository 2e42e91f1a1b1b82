// Package integration contains integration tests that verify cross-package functionality.
// These tests ensure that different components work together correctly in realistic scenarios.
package integration

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/coopsync/internal/testutil"
	"github.com/vnykmshr/coopsync/pkg/metrics"
	"github.com/vnykmshr/coopsync/pkg/reporting"
	"github.com/vnykmshr/coopsync/pkg/scheduling/foreach"
	"github.com/vnykmshr/coopsync/pkg/scheduling/race"
	"github.com/vnykmshr/coopsync/pkg/streaming/sequence"
)

var errBomb = errors.New("bomb")

// TestBatchOfRacesReportsEveryElement drives races through the bounded
// for-each and checks that every element is reported exactly once with the
// full sum of its sequence.
func TestBatchOfRacesReportsEveryElement(t *testing.T) {
	out := testutil.NewMockWriter()
	reporter := reporting.Console(out)
	tally := &metrics.Tally{}

	cfg := foreach.Config{Limit: 4, Name: "batch", Metrics: tally, SafeBarrier: true}
	err := foreach.Slice(cfg, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, func(i int) {
		o := race.Run(context.Background(), race.Config{
			Source:  func() sequence.Source[int] { return sequence.Counting(50, 0) },
			Check:   func() error { return nil },
			Name:    "state",
			Metrics: tally,
		})
		if err := reporter.Report(context.Background(), reporting.Result{Index: i, Sum: o.Sum, Err: o.Err}); err != nil {
			t.Errorf("report %d: %v", i, err)
		}
	})
	testutil.AssertNoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	sort.Strings(lines)
	want := []string{"0 1275", "1 1275", "2 1275", "3 1275", "4 1275",
		"5 1275", "6 1275", "7 1275", "8 1275", "9 1275"}
	testutil.AssertEqual(t, strings.Join(lines, ","), strings.Join(want, ","))

	snap := tally.Snapshot()
	testutil.AssertEqual(t, snap.Tasks, int64(10))
	testutil.AssertEqual(t, snap.Signals, int64(10))
	// Outcomes are counted by the detached producers, after they publish.
	testutil.AssertEventually(t, func() bool { return tally.Snapshot().Successes == 10 })
}

// TestBatchBoundsRacesInFlight verifies that the for-each limit caps the
// number of races running at once even when each race waits on a slow
// background check.
func TestBatchBoundsRacesInFlight(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int64

	items := make([]int, 12)
	cfg := foreach.Config{Limit: limit, SafeBarrier: true}
	err := foreach.Slice(cfg, items, func(int) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		o := race.Run(context.Background(), race.Config{
			Source: func() sequence.Source[int] { return sequence.Counting(3, 0) },
			Check:  func() error { return nil },
			Delay:  20 * time.Millisecond,
		})
		if o.Failed() || o.Sum != 6 {
			t.Errorf("outcome = %+v, want sum 6", o)
		}
	})
	testutil.AssertNoError(t, err)

	if p := peak.Load(); p > limit {
		t.Errorf("peak in flight = %d, want at most %d", p, limit)
	}
}

// TestFailuresCutSequencesShort verifies that a failing background check
// stops the consumer well before a long sequence is exhausted.
func TestFailuresCutSequencesShort(t *testing.T) {
	var mu sync.Mutex
	var results []reporting.Result
	reporter := reporting.ReporterFunc(func(_ context.Context, r reporting.Result) error {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
		return nil
	})

	start := time.Now()
	cfg := foreach.Config{Limit: 8, SafeBarrier: true}
	err := foreach.Slice(cfg, []int{0, 1, 2, 3, 4, 5, 6, 7}, func(i int) {
		o := race.Run(context.Background(), race.Config{
			Source: func() sequence.Source[int] { return sequence.Counting(10000, time.Millisecond) },
			Check:  func() error { return errBomb },
			Delay:  10 * time.Millisecond,
		})
		_ = reporter.Report(context.Background(), reporting.Result{Index: i, Sum: o.Sum, Err: o.Err})
	})
	testutil.AssertNoError(t, err)

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("batch took %v, failures should cut sequences short", elapsed)
	}
	testutil.AssertEqual(t, len(results), 8)
	for _, r := range results {
		if !errors.Is(r.Err, errBomb) {
			t.Errorf("element %d: err = %v, want bomb", r.Index, r.Err)
		}
	}
}

// TestPrometheusSeesWholeBatch checks the registry-backed sink against a
// batch with known outcomes.
func TestPrometheusSeesWholeBatch(t *testing.T) {
	registry := metrics.NewRegistry(prometheus.NewRegistry())

	cfg := foreach.Config{Limit: 2, Name: "batch", Metrics: registry, SafeBarrier: true}
	err := foreach.Slice(cfg, []int{0, 1, 2, 3, 4, 5}, func(i int) {
		check := func() error { return nil }
		if i%2 == 1 {
			check = func() error { return errBomb }
		}
		race.Run(context.Background(), race.Config{
			Source:  func() sequence.Source[int] { return sequence.Counting(5, 0) },
			Check:   check,
			Name:    "state",
			Metrics: registry,
		})
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, promtest.ToFloat64(registry.TasksCompleted.WithLabelValues("batch")), 6.0)
	testutil.AssertEqual(t, promtest.ToFloat64(registry.GroupEntrants.WithLabelValues("batch")), 0.0)
	testutil.AssertEventually(t, func() bool {
		return promtest.ToFloat64(registry.CombinerOutcomes.WithLabelValues("state", "success")) == 3 &&
			promtest.ToFloat64(registry.CombinerOutcomes.WithLabelValues("state", "failure")) == 3
	})
}
