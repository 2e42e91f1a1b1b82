package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.PermitQueued("limiter")
	r.PermitAcquired("limiter", true)
	r.PermitAcquired("limiter", false)
	r.PermitReleased("limiter", true)
	r.EntrantsChanged("counter", 3)
	r.WaitersReleased("counter", 2)
	r.OutcomeWritten("state", true)
	r.TaskFinished("batch", 10*time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"acquired fast", testutil.ToFloat64(r.SemaphoreAcquired.WithLabelValues("limiter", "fast")), 1},
		{"acquired queued", testutil.ToFloat64(r.SemaphoreAcquired.WithLabelValues("limiter", "queued")), 1},
		{"waiting", testutil.ToFloat64(r.SemaphoreWaiting.WithLabelValues("limiter")), 0},
		{"signals", testutil.ToFloat64(r.SemaphoreSignals.WithLabelValues("limiter", "true")), 1},
		{"entrants", testutil.ToFloat64(r.GroupEntrants.WithLabelValues("counter")), 3},
		{"wakes", testutil.ToFloat64(r.GroupWakes.WithLabelValues("counter")), 1},
		{"released", testutil.ToFloat64(r.GroupReleased.WithLabelValues("counter")), 2},
		{"failures", testutil.ToFloat64(r.CombinerOutcomes.WithLabelValues("state", "failure")), 1},
		{"tasks", testutil.ToFloat64(r.TasksCompleted.WithLabelValues("batch")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestRegistryNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithConfig(Config{
		Registry:  reg,
		Namespace: "demo",
		Labels:    prometheus.Labels{"instance": "a"},
	})
	r.PermitReleased("limiter", false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "demo_semaphore_signals_total" {
			found = true
		}
		if !strings.HasPrefix(f.GetName(), "demo_") {
			t.Errorf("metric %q does not use the configured namespace", f.GetName())
		}
	}
	if !found {
		t.Error("demo_semaphore_signals_total not registered")
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := FromConfig(Config{Enabled: false}).(Noop); !ok {
		t.Error("disabled config should yield Noop")
	}

	sink := FromConfig(Config{Enabled: true, Registry: prometheus.NewRegistry()})
	if _, ok := sink.(*Registry); !ok {
		t.Errorf("enabled config should yield *Registry, got %T", sink)
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(Noop); !ok {
		t.Error("nil sink should become Noop")
	}
	tally := &Tally{}
	if OrNoop(tally) != Sink(tally) {
		t.Error("non-nil sink should be returned unchanged")
	}
}

func TestTally(t *testing.T) {
	tally := &Tally{}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tally.PermitAcquired("s", i%2 == 0)
			tally.PermitReleased("s", i%4 == 0)
			tally.OutcomeWritten("c", i%10 == 0)
			tally.TaskFinished("b", time.Millisecond)
		}(i)
	}
	wg.Wait()
	tally.WaitersReleased("g", 3)

	snap := tally.Snapshot()
	want := Snapshot{
		Acquired:  100,
		Queued:    50,
		Signals:   100,
		Handoffs:  25,
		Wakes:     1,
		Released:  3,
		Successes: 90,
		Failures:  10,
		Tasks:     100,
	}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
}

func TestMulti(t *testing.T) {
	a, b := &Tally{}, &Tally{}
	sink := Multi(a, nil, b)

	sink.PermitQueued("s")
	sink.PermitAcquired("s", true)
	sink.PermitReleased("s", true)
	sink.EntrantsChanged("g", 1)
	sink.WaitersReleased("g", 1)
	sink.OutcomeWritten("c", false)
	sink.TaskFinished("b", time.Millisecond)

	for _, tally := range []*Tally{a, b} {
		snap := tally.Snapshot()
		if snap.Acquired != 1 || snap.Signals != 1 || snap.Wakes != 1 || snap.Successes != 1 || snap.Tasks != 1 {
			t.Errorf("event not fanned out: %+v", snap)
		}
	}
}
