package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return client
}

func TestRedisLimiterAllowsWithinLimit(t *testing.T) {
	client := testClient(t)
	defer client.Close()

	limiter := NewRedisLimiter(client)
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())
	defer limiter.Reset(key) //nolint:errcheck

	cfg := Config{RequestsPerMinute: 3}
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(key, cfg)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should pass", i+1)
	}

	allowed, err := limiter.Allow(key, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "attempt over the limit should be rejected")
}

func TestRedisLimiterZeroLimitDisables(t *testing.T) {
	limiter := NewRedisLimiter(nil)
	allowed, err := limiter.Allow("anything", Config{})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiterGetRemaining(t *testing.T) {
	client := testClient(t)
	defer client.Close()

	limiter := NewRedisLimiter(client)
	key := fmt.Sprintf("test:%d", time.Now().UnixNano())
	defer limiter.Reset(key) //nolint:errcheck

	cfg := Config{RequestsPerMinute: 10}
	for i := 0; i < 4; i++ {
		_, err := limiter.Allow(key, cfg)
		require.NoError(t, err)
	}

	count, err := limiter.GetRemaining(key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
