package cache

import (
	"log/slog"
	"time"
)

// New creates the configured cache backend. A Redis URL selects Redis;
// otherwise an in-process memory cache is used. Redis connection
// failures fall back to the memory cache so the server still starts.
func New(redisURL, prefix string, defaultTTL time.Duration) Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}

	if redisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = redisURL
		opts.DefaultTTL = defaultTTL
		if prefix != "" {
			opts.Prefix = prefix
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return rc
		}
		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(defaultTTL)
}
