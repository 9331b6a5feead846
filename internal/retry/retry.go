// Package retry runs operations on an exponential backoff schedule.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// DefaultMaxAttempts is the number of attempts made when Backoff.MaxAttempts is unset.
	DefaultMaxAttempts = 3
	// DefaultInitialDelay is the first backoff delay when Backoff.InitialDelay is unset.
	DefaultInitialDelay = time.Second
)

// SleepFunc suspends the caller for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Backoff describes an exponential retry schedule. The zero value uses the defaults.
type Backoff struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// Sleep is optional; ClockSleep(clock.New()) is used when nil.
	Sleep SleepFunc
}

// Attempts returns the effective number of attempts.
func (b Backoff) Attempts() int {
	if b.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return b.MaxAttempts
}

// Delay returns the wait that follows the failed attempt with the given index:
// InitialDelay * 2^attempt, saturating at the largest time.Duration.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.InitialDelay
	if d <= 0 {
		d = DefaultInitialDelay
	}
	if attempt <= 0 {
		return d
	}
	const maxDelay = time.Duration(math.MaxInt64)
	if attempt >= 63 || d > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return d << uint(attempt)
}

func (b Backoff) sleeper() SleepFunc {
	if b.Sleep != nil {
		return b.Sleep
	}
	return ClockSleep(clock.New())
}

// ClockSleep returns a SleepFunc backed by clk. The timer is always stopped
// when ctx ends first.
func ClockSleep(clk clock.Clock) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		if d <= 0 {
			return ctx.Err()
		}
		timer := clk.Timer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// Do calls op until settled reports true for its result or the attempts are used up,
// sleeping Backoff.Delay(i) between attempts. No sleep follows the final attempt.
// It returns the last result and the number of attempts made; the error is non-nil
// only when ctx ended during a wait.
func Do[T any](ctx context.Context, b Backoff, op func(context.Context) T, settled func(T) bool) (T, int, error) {
	var last T
	sleep := b.sleeper()
	attempts := b.Attempts()

	for i := range attempts {
		last = op(ctx)
		if settled(last) {
			return last, i + 1, nil
		}
		if i == attempts-1 {
			return last, i + 1, nil
		}
		if err := sleep(ctx, b.Delay(i)); err != nil {
			return last, i + 1, err
		}
	}
	return last, attempts, nil
}

type outcome[T any] struct {
	val T
	err error
}

// Retry calls fn until it succeeds or the attempts are used up. On exhaustion it
// returns the error from the final attempt; earlier errors are discarded.
func Retry[T any](ctx context.Context, b Backoff, fn func(context.Context) (T, error)) (T, error) {
	res, _, err := Do(ctx, b,
		func(ctx context.Context) outcome[T] {
			v, err := fn(ctx)
			return outcome[T]{val: v, err: err}
		},
		func(o outcome[T]) bool { return o.err == nil },
	)
	if err != nil {
		return res.val, errors.Join(res.err, err)
	}
	return res.val, res.err
}
