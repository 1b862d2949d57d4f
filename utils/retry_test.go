package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NopLogger()}

	calls := 0
	err := r.Do(context.Background(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NopLogger()}

	boom := errors.New("boom")
	calls := 0
	err := r.Do(context.Background(), "broken", func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
	require.Contains(t, err.Error(), "broken failed after 2 attempts")
}

func TestRetryPermanentStops(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond, Logger: NopLogger()}

	boom := errors.New("not found")
	calls := 0
	err := r.Do(context.Background(), "permanent", func() error {
		calls++
		return backoff.Permanent(boom)
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}
