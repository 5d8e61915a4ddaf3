package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesBurst(t *testing.T) {
	now := time.Unix(0, 0)
	tb := NewTokenBucket(60, 2)
	tb.now = func() time.Time { return now }
	tb.lastRefillTime = now

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// 60/分钟 即每秒补充一个
	now = now.Add(time.Second)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestDefaultBurst(t *testing.T) {
	assert.Equal(t, 30.0, NewTokenBucket(60, 0).capacity)
	assert.Equal(t, 1.0, NewTokenBucket(1, 0).capacity)
	assert.Equal(t, 1.0, NewTokenBucket(0, 0).rate)
}

func TestWaitHonoursContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	tb := NewTokenBucket(6000, 10).WithRetryPolicy(time.Millisecond, 2)

	calls := 0
	err := tb.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("tika 503: %w", ErrRetryable)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	permanent := errors.New("tika 422")
	err = tb.Do(context.Background(), func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)

	calls = 0
	err = tb.Do(context.Background(), func() error {
		calls++
		return ErrRetryable
	})
	assert.ErrorIs(t, err, ErrRetryable)
	assert.Equal(t, 3, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(fmt.Errorf("wrap: %w", context.DeadlineExceeded)))
	assert.True(t, IsRetryable(fmt.Errorf("wrap: %w", ErrRetryable)))
	assert.True(t, IsRetryable(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.False(t, IsRetryable(errors.New("bad request")))
}
