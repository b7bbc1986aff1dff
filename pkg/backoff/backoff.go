// pkg/backoff/backoff.go
package backoff

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
)

// Config contains tunables for exponential back-off.
// Zero values mean "use default"; MaxElapsedTime 0 retries until ctx is done.
type Config struct {
	InitialInterval     time.Duration `mapstructure:"initial_interval"`
	RandomizationFactor float64       `mapstructure:"randomization_factor"` // 0.0 ≤ f ≤ 1.0
	Multiplier          float64       `mapstructure:"multiplier"`
	MaxInterval         time.Duration `mapstructure:"max_interval"`
	MaxElapsedTime      time.Duration `mapstructure:"max_elapsed_time"`

	// PerAttemptTimeout bounds every single call of fn. Zero → none.
	PerAttemptTimeout time.Duration `mapstructure:"per_attempt_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.InitialInterval <= 0 {
		c.InitialInterval = 100 * time.Millisecond
	}
	if c.RandomizationFactor <= 0 {
		c.RandomizationFactor = 0.5
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
}

func (c Config) Validate() error {
	switch {
	case c.RandomizationFactor < 0 || c.RandomizationFactor > 1:
		return fmt.Errorf("backoff: randomization_factor must be in [0,1], got %v", c.RandomizationFactor)
	case c.Multiplier < 1:
		return fmt.Errorf("backoff: multiplier must be ≥ 1, got %v", c.Multiplier)
	case c.MaxElapsedTime < 0 || c.PerAttemptTimeout < 0:
		return fmt.Errorf("backoff: durations must not be negative")
	}
	return nil
}

func (c Config) strategy(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.InitialInterval
	bo.RandomizationFactor = c.RandomizationFactor
	bo.Multiplier = c.Multiplier
	bo.MaxInterval = c.MaxInterval
	bo.MaxElapsedTime = c.MaxElapsedTime
	return backoff.WithContext(bo, ctx)
}

// RetryableFunc is a unit of work that may be re-executed until it
// succeeds or the back-off strategy gives up.
type RetryableFunc func(ctx context.Context) error

// ErrMaxRetries is returned from Execute when fn was still failing after
// the strategy gave up, ctx was done or fn returned a Permanent error.
type ErrMaxRetries struct {
	Operation string
	Err       error // last error returned by fn
	Attempts  int
}

func (e *ErrMaxRetries) Error() string {
	return fmt.Sprintf("backoff: %s: %d attempt(s) failed: %v", e.Operation, e.Attempts, e.Err)
}
func (e *ErrMaxRetries) Unwrap() error { return e.Err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error { return backoff.Permanent(err) }

// Execute runs fn with an exponential back-off defined by cfg, emitting
// Prometheus metrics labelled with op and structured logs via log.
func Execute(ctx context.Context, op string, cfg Config, log *logger.Logger, fn RetryableFunc) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("backoff: invalid config: %w", err)
	}

	svc := service()
	log = log.With(zap.String("operation", op))
	attempts := 0

	attempt := func() error {
		attempts++
		if cfg.PerAttemptTimeout <= 0 {
			return fn(ctx)
		}
		atCtx, cancel := context.WithTimeout(ctx, cfg.PerAttemptTimeout)
		defer cancel()
		return fn(atCtx)
	}
	notify := func(err error, delay time.Duration) {
		retries.WithLabelValues(svc, op).Inc()
		delays.WithLabelValues(svc, op).Observe(delay.Seconds())
		log.Warn("back-off retry",
			zap.Int("attempt", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(attempt, cfg.strategy(ctx), notify); err != nil {
		failures.WithLabelValues(svc, op).Inc()
		log.Error("back-off give-up", zap.Int("attempts", attempts), zap.Error(err))
		return &ErrMaxRetries{Operation: op, Err: err, Attempts: attempts}
	}

	successes.WithLabelValues(svc, op).Inc()
	return nil
}
