package race

import (
	"context"
	"time"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
	"github.com/vnykmshr/coopsync/pkg/common/validation"
	"github.com/vnykmshr/coopsync/pkg/metrics"
	"github.com/vnykmshr/coopsync/pkg/primitives/combiner"
	"github.com/vnykmshr/coopsync/pkg/streaming/sequence"
)

// Config describes one race between a streaming sum and a background check.
type Config struct {
	// Source returns the sequence the consumer sums. It is called once per Run.
	Source func() sequence.Source[int]

	// Check is the producer's fallible decision: nil for success, or the
	// failure to report. It is called once, after Delay.
	Check func() error

	// Delay is how long the producer sleeps before calling Check.
	Delay time.Duration

	// Name labels the combiner in metrics.
	Name string

	// Metrics receives the combiner's outcome. Nil disables reporting.
	Metrics metrics.Sink
}

// Validate reports whether the config can be run.
func (c Config) Validate() error {
	if c.Source == nil {
		return gferrors.NewValidationError("race", "source", nil, "cannot be nil")
	}
	if c.Check == nil {
		return gferrors.NewValidationError("race", "check", nil, "cannot be nil")
	}
	return validation.ValidateNonNegativeDuration("race", "delay", c.Delay)
}

// Outcome is the terminal result of one Run.
type Outcome struct {
	// Sum is the total of the values accumulated before the race ended.
	// On failure it covers only values pulled before the failure was seen.
	Sum int

	// Pulled is the number of values received from the source.
	Pulled int

	// Err is nil on success. A producer failure is returned as is; a
	// source error is wrapped in an *errors.OperationError.
	Err error
}

// Failed reports whether the race ended in failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Run races a consumer summing cfg.Source against a detached producer that
// sleeps cfg.Delay and then writes cfg.Check() to a fresh combiner.
//
// After every pull the consumer polls the combiner and abandons the sequence
// as soon as a failure is visible; the value of that pull is not added. When
// the sequence ends without a failure, the consumer waits for the producer's
// outcome before reporting the sum.
//
// ctx only governs the sequence pulls. The producer is never canceled: if
// Run returns early it finishes in the background.
func Run(ctx context.Context, cfg Config) Outcome {
	if err := cfg.Validate(); err != nil {
		return Outcome{Err: err}
	}

	state := combiner.NewWithConfig(combiner.Config{Name: cfg.Name, Metrics: cfg.Metrics})
	go produce(state, cfg.Delay, cfg.Check)

	return consume(ctx, state, cfg.Source())
}

func produce(state *combiner.Combiner, delay time.Duration, check func() error) {
	if delay > 0 {
		time.Sleep(delay)
	}
	state.Write(check())
}

func consume(ctx context.Context, state *combiner.Combiner, src sequence.Source[int]) Outcome {
	defer func() { _ = src.Close() }()

	var out Outcome
	for {
		v, ok, err := src.Next(ctx)
		if err != nil {
			out.Err = gferrors.NewOperationError("race", "Next", err).
				WithContext("sequence pull failed")
			return out
		}
		if !ok {
			break
		}
		out.Pulled++

		if err := state.CheckError(); err != nil {
			out.Err = err
			return out
		}
		out.Sum += v
	}

	out.Err = state.WaitForCompletion()
	return out
}
