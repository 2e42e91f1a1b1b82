package demo

import (
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
	"github.com/vnykmshr/coopsync/pkg/common/validation"
)

// Config holds the demonstration's parameters.
type Config struct {
	// Iterations is the number of batch elements.
	Iterations int

	// Concurrency is the batch limit. Zero means one per logical CPU.
	Concurrency int

	// MinCount and MaxCount bound the random length of each element's
	// sequence, inclusive.
	MinCount int
	MaxCount int

	// ElementDelay paces every sequence pull.
	ElementDelay time.Duration

	// ProducerDelay is how long each element's background check sleeps.
	ProducerDelay time.Duration

	// FailureRate is the probability that a background check fails.
	FailureRate float64

	// Timeout bounds each batch. A batch still running at the deadline is
	// reported as hung. Zero disables the watchdog.
	Timeout time.Duration

	// Schedule is a cron expression for repeated batches. Empty runs one
	// batch.
	Schedule string

	// MetricsAddr, when set, serves Prometheus metrics on /metrics.
	MetricsAddr string

	// RedisAddr, when set, also stores results in Redis under RedisKey.
	RedisAddr string
	RedisKey  string

	// SafeBarrier selects the corrected for-each completion barrier.
	SafeBarrier bool

	// Seed makes element lengths and failures reproducible. Zero picks a
	// random seed.
	Seed uint64
}

// DefaultConfig returns the classic demonstration parameters:
// 100 elements, sequences of 200 to 1000 values at 1ms each, and a 50%
// chance of failure reported after 300ms.
func DefaultConfig() Config {
	return Config{
		Iterations:    100,
		MinCount:      200,
		MaxCount:      1000,
		ElementDelay:  time.Millisecond,
		ProducerDelay: 300 * time.Millisecond,
		FailureRate:   0.5,
		RedisKey:      "coopsync",
	}
}

// Validate reports the first invalid parameter.
func (c Config) Validate() error {
	checks := []error{
		validation.ValidateNonNegativeInt("demo", "iterations", c.Iterations),
		validation.ValidateNonNegativeInt("demo", "concurrency", c.Concurrency),
		validation.ValidateNonNegativeInt("demo", "min_count", c.MinCount),
		validation.ValidateRange("demo", "min_count", "max_count", c.MinCount, c.MaxCount),
		validation.ValidateNonNegativeDuration("demo", "element_delay", c.ElementDelay),
		validation.ValidateNonNegativeDuration("demo", "producer_delay", c.ProducerDelay),
		validation.ValidateNonNegativeDuration("demo", "timeout", c.Timeout),
		validation.ValidateProbability("demo", "failure_rate", c.FailureRate),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return gferrors.NewValidationError("demo", "schedule", c.Schedule, err.Error()).
				WithHint("use a 5-field cron expression or a descriptor such as @every 30s")
		}
	}
	return nil
}
