// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestDo_ImmediateSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 3}

	calls := 0
	attempts, err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	p := Policy{MaxAttempts: 5, Backoff: Linear(time.Millisecond)}

	calls := 0
	attempts, err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: Linear(time.Millisecond)}

	calls := 0
	attempts, err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	p := Policy{
		MaxAttempts: 5,
		Retryable:   func(error) bool { return false },
	}

	calls := 0
	attempts, err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroMaxAttemptsMeansOne(t *testing.T) {
	p := Policy{}

	calls := 0
	attempts, err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 3}
	attempts, err := p.Do(ctx, func(context.Context) error {
		t.Fatal("op must not run on a cancelled context")
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{MaxAttempts: 3, Backoff: Linear(time.Hour)}
	attempts, err := p.Do(ctx, func(context.Context) error {
		cancel()
		return errBoom
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestLinear(t *testing.T) {
	b := Linear(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 200*time.Millisecond, b(2))
	assert.Equal(t, 300*time.Millisecond, b(3))
}

func TestExponentialBounds(t *testing.T) {
	b := Exponential(100 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := 100 * time.Millisecond << (attempt - 1)
		for j := 0; j < 20; j++ {
			d := b(attempt)
			assert.GreaterOrEqual(t, d, base/2)
			assert.LessOrEqual(t, d, base/2+base)
		}
	}
}
