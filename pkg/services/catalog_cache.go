package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/logging"
	"github.com/lpcraft/checklist-engine/pkg/models"
)

// NameCache memoizes genre and region name resolutions.
// Implementations swallow their own failures: a broken cache behaves like an empty one.
type NameCache interface {
	GetGenre(ctx context.Context, name string) (*models.Genre, bool)
	SetGenre(ctx context.Context, genre *models.Genre)
	GetRegion(ctx context.Context, name string) (*models.Region, bool)
	SetRegion(ctx context.Context, region *models.Region)
}

// NoopNameCache never hits.
type NoopNameCache struct{}

func (NoopNameCache) GetGenre(context.Context, string) (*models.Genre, bool)   { return nil, false }
func (NoopNameCache) SetGenre(context.Context, *models.Genre)                  {}
func (NoopNameCache) GetRegion(context.Context, string) (*models.Region, bool) { return nil, false }
func (NoopNameCache) SetRegion(context.Context, *models.Region)                {}

var _ NameCache = NoopNameCache{}

type redisNameCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisNameCache creates a NameCache backed by Redis.
// Entries are JSON-encoded and expire after ttl.
func NewRedisNameCache(client *redis.Client, ttl time.Duration, prefix string, logger *zap.Logger) NameCache {
	return &redisNameCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: logger.Named("name-cache"),
	}
}

var _ NameCache = (*redisNameCache)(nil)

func (c *redisNameCache) key(kind, name string) string {
	return c.prefix + ":" + kind + ":" + name
}

func (c *redisNameCache) GetGenre(ctx context.Context, name string) (*models.Genre, bool) {
	var genre models.Genre
	if !c.get(ctx, c.key("genre", name), &genre) {
		return nil, false
	}
	return &genre, true
}

func (c *redisNameCache) SetGenre(ctx context.Context, genre *models.Genre) {
	c.set(ctx, c.key("genre", genre.Name), genre)
}

func (c *redisNameCache) GetRegion(ctx context.Context, name string) (*models.Region, bool) {
	var region models.Region
	if !c.get(ctx, c.key("region", name), &region) {
		return nil, false
	}
	return &region, true
}

func (c *redisNameCache) SetRegion(ctx context.Context, region *models.Region) {
	c.set(ctx, c.key("region", region.Name), region)
}

func (c *redisNameCache) get(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed",
				zap.String("key", key),
				zap.String("error", logging.SanitizeError(err)))
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

func (c *redisNameCache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("key", key),
			zap.String("error", logging.SanitizeError(err)))
	}
}
