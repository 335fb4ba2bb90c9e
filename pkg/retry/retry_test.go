package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsOnThirdAttempt(t *testing.T) {
	var waits []time.Duration
	cfg := Config{
		MaxAttempts: 3,
		InitialWait: 2 * time.Second,
		Sleep:       func(d time.Duration) { waits = append(waits, d) },
	}

	calls := 0
	result, err := Do(context.Background(), cfg, nil, "op", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	// Backoff doubles: initial*1, then initial*2.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, waits)
}

func TestDoExhaustsAttempts(t *testing.T) {
	var waits []time.Duration
	cfg := Config{
		MaxAttempts: 3,
		InitialWait: time.Second,
		Sleep:       func(d time.Duration) { waits = append(waits, d) },
	}

	calls := 0
	_, err := Do(context.Background(), cfg, nil, "op", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, waits, 2)
	assert.Contains(t, err.Error(), "op failed after 3 attempts")
	assert.Contains(t, err.Error(), "boom")
}

func TestDoFirstAttemptSuccessSkipsBackoff(t *testing.T) {
	slept := false
	cfg := Config{
		MaxAttempts: 3,
		InitialWait: time.Second,
		Sleep:       func(time.Duration) { slept = true },
	}

	result, err := Do(context.Background(), cfg, nil, "op", func(ctx context.Context) (int, error) {
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, result)
	assert.False(t, slept)
}

func TestDoZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Config{}, nil, "op", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsCancellationBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		MaxAttempts: 3,
		InitialWait: time.Second,
		Sleep:       func(time.Duration) {},
	}

	calls := 0
	_, err := Do(ctx, cfg, nil, "op", func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}
