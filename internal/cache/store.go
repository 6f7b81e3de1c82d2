package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"solarwatch/internal/config"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the backend named by cfg.Backend. Redis is pinged once so a bad address fails at startup.
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		s := NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := s.Client.Ping(ctx).Err(); err != nil {
			_ = s.Client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
