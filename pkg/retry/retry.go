// Package retry provides a context-aware retry engine with configurable
// backoff. Report downloads hit raw.githubusercontent.com in bulk and
// get throttled; every retrying caller shares this engine instead of
// growing its own loop.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// Strategy selects the backoff algorithm.
type Strategy int

const (
	// Exponential doubles the delay each attempt.
	Exponential Strategy = iota
	// Linear grows the delay linearly with the attempt number.
	Linear
	// Constant keeps the same delay between attempts.
	Constant
)

// Config controls retry behaviour.
type Config struct {
	MaxAttempts int           // total attempts including the first, 0 is a no-op
	InitDelay   time.Duration // base delay before the first retry
	MaxDelay    time.Duration // upper bound on any single delay
	Strategy    Strategy
	Jitter      bool // spread delays by up to a quarter either way
}

// StopError wraps an error that must not be retried, a failed
// certificate verification being the usual case.
type StopError struct {
	Err error
}

func (e *StopError) Error() string { return e.Err.Error() }
func (e *StopError) Unwrap() error { return e.Err }

// Stop wraps err so that Do returns it without further attempts.
func Stop(err error) error {
	return &StopError{Err: err}
}

// sleeper lets tests replace the real clock.
type sleeper interface {
	sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do executes fn up to cfg.MaxAttempts times, sleeping between failures
// according to the configured strategy. It returns nil on the first
// success, the wrapped error when fn returns a StopError, ctx.Err()
// when the context ends mid-wait, and the last error otherwise.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return doWithSleeper(ctx, cfg, fn, realSleeper{})
}

func doWithSleeper(ctx context.Context, cfg Config, fn func() error, s sleeper) error {
	if cfg.MaxAttempts <= 0 {
		return nil
	}

	var lastErr error
	for attempt := range cfg.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var stop *StopError
		if errors.As(lastErr, &stop) {
			return stop.Err
		}

		if attempt < cfg.MaxAttempts-1 {
			if err := s.sleep(ctx, CalcDelay(cfg, attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// CalcDelay computes the sleep before the retry following the given
// zero-indexed attempt.
func CalcDelay(cfg Config, attempt int) time.Duration {
	var delay time.Duration
	switch cfg.Strategy {
	case Exponential:
		delay = cfg.InitDelay * time.Duration(math.Pow(2, float64(attempt)))
	case Linear:
		delay = cfg.InitDelay * time.Duration(attempt+1)
	case Constant:
		delay = cfg.InitDelay
	}
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	if cfg.Jitter && delay > 0 {
		quarter := int64(delay) / 4
		if quarter > 0 {
			j := time.Duration(rand.Int64N(quarter))
			if rand.IntN(2) == 0 {
				delay += j
			} else {
				delay -= j
			}
		}
	}
	return delay
}
