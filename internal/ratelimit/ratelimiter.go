package ratelimit

import "time"

// Config bounds request throughput for one key.
type Config struct {
	RequestsPerMinute int
}

// Limiter answers whether a keyed operation may proceed.
type Limiter interface {
	Allow(key string, config Config) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
