package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igmobile/pkg/config"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(3, 200*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "token %d should be available", i+1)
	}
	assert.False(t, tb.Allow())

	time.Sleep(250 * time.Millisecond)
	assert.True(t, tb.Allow())

	tb.Reset()
	assert.Equal(t, tb.capacity, tb.tokens)
}

func TestTokenBucketWaitRefills(t *testing.T) {
	tb := NewTokenBucket(1, 100*time.Millisecond)
	require.True(t, tb.Allow())

	start := time.Now()
	require.NoError(t, tb.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(2, 200*time.Millisecond)

	assert.True(t, sw.Allow())
	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow())

	time.Sleep(250 * time.Millisecond)
	assert.True(t, sw.Allow())

	sw.Reset()
	assert.Empty(t, sw.requests)
}

func TestWaitHonoursContext(t *testing.T) {
	sw := NewSlidingWindow(1, time.Hour)
	require.True(t, sw.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := sw.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFromConfig(t *testing.T) {
	assert.Nil(t, FromConfig(config.RateLimitConfig{Enabled: false, RequestsPerMinute: 10}))
	assert.Nil(t, FromConfig(config.RateLimitConfig{Enabled: true}))

	l := FromConfig(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2})
	require.NotNil(t, l)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestFromConfigTokenBucket(t *testing.T) {
	l := FromConfig(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Strategy:          config.RateLimitTokenBucket,
		BurstSize:         3,
	})
	tb, ok := l.(*TokenBucket)
	require.True(t, ok)
	assert.Equal(t, 3, tb.capacity)
	assert.Equal(t, 3*time.Second, tb.refillPeriod)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow())
	}
	assert.False(t, tb.Allow())
}

func TestFromConfigTokenBucketBurstCappedAtRate(t *testing.T) {
	l := FromConfig(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 5,
		Strategy:          config.RateLimitTokenBucket,
	})
	tb, ok := l.(*TokenBucket)
	require.True(t, ok)
	assert.Equal(t, 5, tb.capacity)
	assert.Equal(t, time.Minute, tb.refillPeriod)
}

func TestFromConfigDefaultsToSlidingWindow(t *testing.T) {
	l := FromConfig(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 5, Strategy: config.RateLimitSlidingWindow})
	assert.IsType(t, &SlidingWindow{}, l)
}
