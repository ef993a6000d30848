package redis

import "time"

// Config holds Redis connection settings for the identity and document store
type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds the startup ping
	ConnectTimeout time.Duration

	// ResetTokenTTL bounds how long an unused reset token is kept.
	// The auth service still checks the token's own expiry.
	ResetTokenTTL time.Duration
}

// DefaultConfig returns the settings used when only REDIS_URL is given
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
		ResetTokenTTL:  24 * time.Hour,
	}
}
