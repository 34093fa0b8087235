package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) *Backoff {
	return New(
		WithFirstDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond),
		WithAttempts(attempts),
		WithJitter(0),
	)
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fastBackoff(5).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := New(WithFirstDelay(time.Hour), WithAttempts(3), WithJitter(0)).
		Do(ctx, func(context.Context) error {
			calls++
			cancel()
			return errors.New("down")
		})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	calls := 0
	got, err := DoWithData(fastBackoff(3), context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, got)
}
