package main

import (
	"context"
	"fmt"

	"libraryapi/internal/config"
	"libraryapi/internal/rescache"

	"github.com/redis/go-redis/v9"
)

// newCacheStore builds the byte store selected by CACHE_DRIVER.
func newCacheStore(ctx context.Context, cfg config.CacheConfig) (rescache.Store, error) {
	maxBytes := int64(cfg.MaxSizeMB) << 20
	switch cfg.Driver {
	case "memory":
		return rescache.NewMemoryStore(rescache.DefaultMaxEntryBytes), nil
	case "ristretto":
		return rescache.NewRistrettoStore(rescache.RistrettoConfig{
			NumCounters: 100_000,
			MaxCost:     maxBytes,
			BufferItems: 64,
		})
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return rescache.NewRedisStore(client, cfg.RedisPrefix, true)
	case "bigcache":
		return rescache.NewBigCacheStore(ctx, cfg.TTL, cfg.MaxSizeMB)
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
