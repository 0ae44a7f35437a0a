package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lpcraft/checklist-engine/pkg/config"
	"github.com/lpcraft/checklist-engine/pkg/retry"
)

// NewRedisClient creates a new Redis client with the given configuration.
// Returns nil if Redis is not configured (host is empty). A nil retryCfg
// uses retry.DefaultConfig.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, retryCfg *retry.Config) (*redis.Client, error) {
	addr := cfg.Addr()
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := retry.Do(ctx, retryCfg, func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return client, nil
}
