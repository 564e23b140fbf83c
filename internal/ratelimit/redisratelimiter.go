package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements a sliding-window limiter over a Redis sorted
// set per (key, window).
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter builds a limiter backed by the given client.
func NewRedisLimiter(client *redis.Client) Limiter {
	return &RedisLimiter{client: client}
}

// Allow records the attempt and reports whether it fits in the window.
func (l *RedisLimiter) Allow(key string, config Config) (bool, error) {
	if config.RequestsPerMinute <= 0 {
		return true, nil
	}
	return l.checkWindow(key, time.Minute, config.RequestsPerMinute, time.Now())
}

func (l *RedisLimiter) checkWindow(key string, window time.Duration, limit int, now time.Time) (bool, error) {
	ctx := context.Background()
	redisKey := l.redisKey(key, window)
	windowStart := now.Add(-window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, redisKey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline: %w", err)
	}

	return zcard.Val() < int64(limit), nil
}

// GetRemaining returns how many attempts the window currently holds.
func (l *RedisLimiter) GetRemaining(key string, window time.Duration) (int64, error) {
	ctx := context.Background()
	redisKey := l.redisKey(key, window)
	windowStart := time.Now().Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit remaining: %w", err)
	}
	return zcard.Val(), nil
}

// Reset drops all windows for the key.
func (l *RedisLimiter) Reset(key string) error {
	ctx := context.Background()
	pattern := fmt.Sprintf("ratelimit:%s:*", key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (l *RedisLimiter) redisKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, window.String())
}
