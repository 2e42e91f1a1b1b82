package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	gfcontext "github.com/vnykmshr/coopsync/pkg/common/context"
	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
	"github.com/vnykmshr/coopsync/pkg/metrics"
	"github.com/vnykmshr/coopsync/pkg/reporting"
	"github.com/vnykmshr/coopsync/pkg/scheduling/foreach"
	"github.com/vnykmshr/coopsync/pkg/scheduling/race"
	"github.com/vnykmshr/coopsync/pkg/streaming/sequence"
)

// ErrBomb is the failure injected by an element's background check.
var ErrBomb = errors.New("bomb")

// ErrBatchHung is returned when a batch outlives Config.Timeout.
var ErrBatchHung = fmt.Errorf("demo: batch did not complete: %w", gferrors.ErrTimeout)

// BatchSummary describes one finished (or abandoned) batch.
type BatchSummary struct {
	Elements     int
	Succeeded    int64
	Failed       int64
	ReportErrors int64
	Duration     time.Duration
	Counters     metrics.Snapshot
}

// Runner drives batches of races and reports their results.
type Runner struct {
	config   Config
	reporter reporting.Reporter
	logger   *log.Logger

	sink     metrics.Sink
	gatherer prometheus.Gatherer
	redis    *redis.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRunner validates config and wires the runner's collaborators: results
// are written to out (and Redis when configured), and a Prometheus registry
// backs the metrics endpoint when MetricsAddr is set.
func NewRunner(config Config, out io.Writer, logger *log.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	r := &Runner{
		config:   config,
		reporter: reporting.Console(out),
		logger:   logger,
		sink:     metrics.Noop{},
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}

	if config.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		r.sink = metrics.NewRegistry(reg)
		r.gatherer = reg
	}

	if config.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		rr, err := reporting.NewRedis(reporting.RedisConfig{
			Redis:  r.redis,
			Key:    config.RedisKey,
			KeyTTL: 24 * time.Hour,
		})
		if err != nil {
			_ = r.redis.Close()
			return nil, err
		}
		r.reporter = reporting.Multi(r.reporter, rr)
	}

	return r, nil
}

// Close releases the Redis client, if any.
func (r *Runner) Close() error {
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}

// Run executes one batch, or batches on Config.Schedule until ctx ends,
// alongside the metrics endpoint when one is configured.
func (r *Runner) Run(ctx context.Context) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	if r.gatherer != nil {
		srv := &http.Server{
			Addr:              r.config.MetricsAddr,
			Handler:           r.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			r.logger.Printf("Metrics server starting on %s/metrics", r.config.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// A single run ends the metrics server with it.
		defer stop()
		return r.runSchedule(gctx)
	})

	return g.Wait()
}

func (r *Runner) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (r *Runner) runSchedule(ctx context.Context) error {
	if r.config.Schedule == "" {
		_, err := r.runAndLog(ctx)
		return err
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.config.Schedule, func() {
		// Scheduled batches keep going after a hang; it is logged.
		_, _ = r.runAndLog(ctx)
	}); err != nil {
		return gferrors.NewValidationError("demo", "schedule", r.config.Schedule, err.Error())
	}

	r.logger.Printf("Running batches on schedule %q", r.config.Schedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (r *Runner) runAndLog(ctx context.Context) (BatchSummary, error) {
	summary, err := r.RunBatch(ctx)
	switch {
	case errors.Is(err, ErrBatchHung):
		r.logger.Printf("Batch hung after %v: %d of %d elements reported, %d signals, %d tasks finished",
			summary.Duration, summary.Succeeded+summary.Failed, summary.Elements,
			summary.Counters.Signals, summary.Counters.Tasks)
	case err != nil:
		r.logger.Printf("Batch failed: %v", err)
	default:
		r.logger.Printf("Batch done in %v: %d succeeded, %d failed, %d signals, %d tasks finished",
			summary.Duration, summary.Succeeded, summary.Failed,
			summary.Counters.Signals, summary.Counters.Tasks)
	}
	return summary, err
}

// RunBatch runs Config.Iterations races through the bounded for-each
// driver. Each element sums a sequence of random length while a background
// check fails with probability Config.FailureRate, and reports its result.
//
// With a Timeout the batch runs under a watchdog and ErrBatchHung is
// returned if it is still running at the deadline; the stuck goroutines are
// left behind.
func (r *Runner) RunBatch(ctx context.Context) (BatchSummary, error) {
	var succeeded, failed, reportErrs atomic.Int64
	tally := &metrics.Tally{}
	sink := metrics.Multi(tally, r.sink)
	start := time.Now()

	summarize := func() BatchSummary {
		return BatchSummary{
			Elements:     r.config.Iterations,
			Succeeded:    succeeded.Load(),
			Failed:       failed.Load(),
			ReportErrors: reportErrs.Load(),
			Duration:     time.Since(start),
			Counters:     tally.Snapshot(),
		}
	}

	cfg := foreach.Config{
		Limit:       r.config.Concurrency,
		Name:        "batch",
		Metrics:     sink,
		SafeBarrier: r.config.SafeBarrier,
	}

	body := func(i int) {
		n := r.count()
		out := race.Run(ctx, race.Config{
			Source:  func() sequence.Source[int] { return sequence.Counting(n, r.config.ElementDelay) },
			Check:   r.check,
			Delay:   r.config.ProducerDelay,
			Name:    "state",
			Metrics: sink,
		})

		if out.Failed() {
			failed.Add(1)
		} else {
			succeeded.Add(1)
		}

		result := reporting.Result{Index: i, Sum: out.Sum, Err: out.Err}
		if err := r.reporter.Report(ctx, result); err != nil {
			reportErrs.Add(1)
			r.logger.Printf("Report element %d: %v", i, err)
		}
	}

	watchCtx, cancel := gfcontext.WithTimeoutOrCancel(ctx, r.config.Timeout)
	defer cancel()

	var batchErr error
	err := gfcontext.Await(watchCtx, func() {
		batchErr = foreach.ForEachWithConfig(cfg, indices(r.config.Iterations), body)
	})
	if err != nil {
		if gfcontext.IsTimedOut(watchCtx) && ctx.Err() == nil {
			return summarize(), ErrBatchHung
		}
		return summarize(), err
	}
	return summarize(), batchErr
}

func indices(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// count picks a sequence length in [MinCount, MaxCount].
func (r *Runner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config.MinCount + r.rng.IntN(r.config.MaxCount-r.config.MinCount+1)
}

// check is the background decision: ErrBomb with probability FailureRate.
func (r *Runner) check() error {
	r.mu.Lock()
	roll := r.rng.Float64()
	r.mu.Unlock()

	if roll < r.config.FailureRate {
		return ErrBomb
	}
	return nil
}
