package retryx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/require"
	"github.com/vincejv/fpi-login-api/pkg/retryx"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), retryx.Backoff(time.Millisecond), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return retry.RetryableError(errors.New("transient"))
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestBackoffStopsOnTerminalError(t *testing.T) {
	terminal := errors.New("terminal")
	attempts := 0
	err := retry.Do(context.Background(), retryx.Backoff(time.Millisecond), func(ctx context.Context) error {
		attempts++
		return terminal
	})
	require.ErrorIs(t, err, terminal)
	require.Equal(t, 1, attempts)
}

func TestBackoffMaxGivesUp(t *testing.T) {
	transient := errors.New("still down")
	attempts := 0
	err := retry.Do(context.Background(), retryx.BackoffMax(time.Millisecond, 5), func(ctx context.Context) error {
		attempts++
		return retry.RetryableError(transient)
	})
	require.ErrorIs(t, err, transient)
	require.Equal(t, 6, attempts) // initial attempt + 5 retries
}

func TestBackoffHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, retryx.Backoff(time.Second), func(ctx context.Context) error {
		return retry.RetryableError(errors.New("transient"))
	})
	require.ErrorIs(t, err, context.Canceled)
}
