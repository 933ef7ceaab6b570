package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSleeper records requested delays instead of sleeping.
type fakeSleeper struct {
	delays []time.Duration
	err    error
}

func (s *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

func cfg(attempts int) Config {
	return Config{
		MaxAttempts: attempts,
		InitDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Strategy:    Exponential,
	}
}

func TestDoFirstTrySucceeds(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	err := doWithSleeper(context.Background(), cfg(3), func() error {
		calls++
		return nil
	}, s)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, s.delays)
}

func TestDoRecoversAfterFailures(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	err := doWithSleeper(context.Background(), cfg(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("throttled")
		}
		return nil
	}, s)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// Exponential without jitter: 1s then 2s.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, s.delays)
}

func TestDoExhaustionReturnsLastError(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	last := errors.New("still throttled")
	err := doWithSleeper(context.Background(), cfg(3), func() error {
		calls++
		return last
	}, s)
	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	// No sleep after the final attempt.
	assert.Len(t, s.delays, 2)
}

func TestDoStopErrorHaltsImmediately(t *testing.T) {
	s := &fakeSleeper{}
	calls := 0
	permanent := errors.New("404 not found")
	err := doWithSleeper(context.Background(), cfg(5), func() error {
		calls++
		return Stop(permanent)
	}, s)
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, s.delays)
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := doWithSleeper(ctx, cfg(3), func() error {
		t.Fatal("fn must not run on a dead context")
		return nil
	}, &fakeSleeper{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoContextCancelledMidSleep(t *testing.T) {
	s := &fakeSleeper{err: context.Canceled}
	calls := 0
	err := doWithSleeper(context.Background(), cfg(3), func() error {
		calls++
		return errors.New("throttled")
	}, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoZeroAttemptsIsNoOp(t *testing.T) {
	err := doWithSleeper(context.Background(), Config{}, func() error {
		t.Fatal("fn must not run with zero attempts")
		return nil
	}, &fakeSleeper{})
	assert.NoError(t, err)
}

func TestCalcDelay(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		attempt int
		want    time.Duration
	}{
		{"exponential first", Config{InitDelay: time.Second, MaxDelay: time.Minute, Strategy: Exponential}, 0, time.Second},
		{"exponential third", Config{InitDelay: time.Second, MaxDelay: time.Minute, Strategy: Exponential}, 2, 4 * time.Second},
		{"exponential capped", Config{InitDelay: time.Second, MaxDelay: 5 * time.Second, Strategy: Exponential}, 4, 5 * time.Second},
		{"linear", Config{InitDelay: time.Second, MaxDelay: time.Minute, Strategy: Linear}, 2, 3 * time.Second},
		{"constant", Config{InitDelay: 2 * time.Second, MaxDelay: time.Minute, Strategy: Constant}, 7, 2 * time.Second},
		{"zero max delay means uncapped", Config{InitDelay: time.Second, Strategy: Exponential}, 6, 64 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcDelay(tt.cfg, tt.attempt))
		})
	}
}

func TestCalcDelayJitterStaysBounded(t *testing.T) {
	c := Config{InitDelay: 4 * time.Second, MaxDelay: time.Minute, Strategy: Constant, Jitter: true}
	for range 200 {
		d := CalcDelay(c, 0)
		assert.GreaterOrEqual(t, d, 3*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}
}
