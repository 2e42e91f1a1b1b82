package reporting

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
	"github.com/vnykmshr/coopsync/pkg/common/validation"
)

// RedisConfig configures a Redis reporter.
type RedisConfig struct {
	// Redis is the client used for all commands.
	Redis redis.Cmdable

	// Key is the prefix for the result keys. Defaults to "coopsync".
	Key string

	// KeyTTL is refreshed on every report. Zero leaves keys without expiry.
	KeyTTL time.Duration

	// RedisTimeout bounds each report. Defaults to 1s.
	RedisTimeout time.Duration
}

type redisReporter struct {
	config RedisConfig
	keys   map[string]string
}

// NewRedis returns a Reporter storing results in Redis:
//
//	<key>:results  hash  index -> sum, or "failed: <err>"
//	<key>:stats    hash  succeeded / failed counters
func NewRedis(config RedisConfig) (Reporter, error) {
	if err := validation.ValidateNotNil("reporting", "redis", config.Redis); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegativeDuration("reporting", "key_ttl", config.KeyTTL); err != nil {
		return nil, err
	}
	if config.Key == "" {
		config.Key = "coopsync"
	}
	if config.RedisTimeout <= 0 {
		config.RedisTimeout = time.Second
	}

	return &redisReporter{
		config: config,
		keys:   redisKeys(config.Key),
	}, nil
}

// redisKeys generates Redis keys for different data structures.
func redisKeys(prefix string) map[string]string {
	return map[string]string{
		"results": prefix + ":results",
		"stats":   prefix + ":stats",
	}
}

func (r *redisReporter) Report(ctx context.Context, result Result) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.RedisTimeout)
	defer cancel()

	value := strconv.Itoa(result.Sum)
	stat := "succeeded"
	if result.Failed() {
		value = "failed: " + result.Err.Error()
		stat = "failed"
	}

	pipe := r.config.Redis.TxPipeline()
	pipe.HSet(ctx, r.keys["results"], strconv.Itoa(result.Index), value)
	pipe.HIncrBy(ctx, r.keys["stats"], stat, 1)
	if r.config.KeyTTL > 0 {
		pipe.Expire(ctx, r.keys["results"], r.config.KeyTTL)
		pipe.Expire(ctx, r.keys["stats"], r.config.KeyTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return gferrors.NewOperationError("reporting", "Redis", err).
			WithContext("element " + strconv.Itoa(result.Index))
	}
	return nil
}
