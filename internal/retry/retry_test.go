package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep returns a SleepFunc that records requested delays without waiting.
func recordingSleep(delays *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestBackoff_Defaults(t *testing.T) {
	var b Backoff
	assert.Equal(t, 3, b.Attempts())
	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, 2*time.Second, b.Delay(1))
	assert.Equal(t, 4*time.Second, b.Delay(2))
}

func TestBackoff_DelaySaturates(t *testing.T) {
	b := Backoff{InitialDelay: 100000 * time.Hour}
	for attempt := 0; attempt < 70; attempt++ {
		assert.Positive(t, b.Delay(attempt), "attempt %d", attempt)
	}
	assert.Equal(t, time.Duration(math.MaxInt64), b.Delay(40))
	assert.Equal(t, time.Minute<<9, Backoff{InitialDelay: time.Minute}.Delay(9))
}

func TestRetry_SucceedsAfterKFailures(t *testing.T) {
	const d = 10 * time.Millisecond

	for n := 1; n <= 5; n++ {
		for k := 0; k < n; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				var delays []time.Duration
				calls := 0
				b := Backoff{MaxAttempts: n, InitialDelay: d, Sleep: recordingSleep(&delays)}

				got, err := Retry(context.Background(), b, func(context.Context) (string, error) {
					calls++
					if calls <= k {
						return "", fmt.Errorf("failure %d", calls)
					}
					return "ok", nil
				})

				require.NoError(t, err)
				assert.Equal(t, "ok", got)
				assert.Equal(t, k+1, calls)

				want := make([]time.Duration, 0, k)
				for i := range k {
					want = append(want, d<<uint(i))
				}
				if k == 0 {
					assert.Empty(t, delays)
				} else {
					assert.Equal(t, want, delays)
				}
			})
		}
	}
}

func TestRetry_AlwaysFailingReturnsLastError(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var delays []time.Duration
			calls := 0
			b := Backoff{MaxAttempts: n, InitialDelay: time.Second, Sleep: recordingSleep(&delays)}

			_, err := Retry(context.Background(), b, func(context.Context) (int, error) {
				calls++
				return 0, fmt.Errorf("attempt %d failed", calls)
			})

			require.Error(t, err)
			assert.Equal(t, fmt.Sprintf("attempt %d failed", n), err.Error())
			assert.Equal(t, n, calls)
			assert.Len(t, delays, n-1)
		})
	}
}

func TestDo_StopsWhenSettled(t *testing.T) {
	var delays []time.Duration
	b := Backoff{MaxAttempts: 3, InitialDelay: time.Second, Sleep: recordingSleep(&delays)}

	results := []string{"pending", "done", "unused"}
	i := 0
	got, attempts, err := Do(context.Background(), b,
		func(context.Context) string {
			r := results[i]
			i++
			return r
		},
		func(s string) bool { return s == "done" },
	)

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{time.Second}, delays)
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Sleep: func(_ context.Context, _ time.Duration) error {
			cancel()
			return context.Canceled
		},
	}

	calls := 0
	_, attempts, err := Do(ctx, b,
		func(context.Context) bool {
			calls++
			return false
		},
		func(ok bool) bool { return ok },
	)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCanceledKeepsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opErr := errors.New("upstream unavailable")
	b := Backoff{
		MaxAttempts: 3,
		Sleep: func(context.Context, time.Duration) error {
			cancel()
			return context.Canceled
		},
	}

	_, err := Retry(ctx, b, func(context.Context) (int, error) { return 0, opErr })

	require.ErrorIs(t, err, opErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClockSleep_WaitsForMockClock(t *testing.T) {
	mock := clock.NewMock()
	sleep := ClockSleep(mock)

	done := make(chan error, 1)
	go func() { done <- sleep(context.Background(), 2*time.Second) }()

	// Advance until the goroutine has registered its timer and observed the tick.
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case err := <-done:
			return assert.NoError(t, err)
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestClockSleep_ReturnsOnCancel(t *testing.T) {
	mock := clock.NewMock()
	sleep := ClockSleep(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClockSleep_NonPositiveDuration(t *testing.T) {
	sleep := ClockSleep(clock.NewMock())
	require.NoError(t, sleep(context.Background(), 0))
}
