package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

type mappingCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewDroneMappingCache creates a Redis-backed read-through cache for drone
// mapping identifier lookups. Every mapping is cached under all three of its
// keys (name, serial number, SISANT). The cache is best-effort: Redis errors
// are logged and treated as misses.
func NewDroneMappingCache(client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.DroneMappingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &mappingCache{
		client: client,
		prefix: "drone_mapping:ident:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *mappingCache) Get(ctx context.Context, identifier string) (*domain.DroneMapping, bool) {
	result, err := c.client.Get(ctx, c.key(identifier)).Result()
	if err != nil {
		if err != redislib.Nil {
			c.logger.Warn("mapping cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var mapping domain.DroneMapping
	if err := json.Unmarshal([]byte(result), &mapping); err != nil {
		c.logger.Warn("mapping cache entry corrupted, dropping", zap.String("identifier", identifier), zap.Error(err))
		_ = c.client.Del(ctx, c.key(identifier)).Err()
		return nil, false
	}
	return &mapping, true
}

func (c *mappingCache) Set(ctx context.Context, mapping *domain.DroneMapping) {
	if mapping == nil {
		return
	}
	payload, err := json.Marshal(mapping)
	if err != nil {
		return
	}
	for _, identifier := range c.identifiers(mapping) {
		if err := c.client.Set(ctx, c.key(identifier), payload, c.ttl).Err(); err != nil {
			c.logger.Warn("mapping cache write failed", zap.Error(err))
			return
		}
	}
}

func (c *mappingCache) Invalidate(ctx context.Context, mapping *domain.DroneMapping) {
	if mapping == nil {
		return
	}
	keys := make([]string, 0, 3)
	for _, identifier := range c.identifiers(mapping) {
		keys = append(keys, c.key(identifier))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("mapping cache invalidation failed", zap.Error(err))
	}
}

func (c *mappingCache) identifiers(mapping *domain.DroneMapping) []string {
	return []string{mapping.Name, mapping.SerialNumber, mapping.Sisant}
}

func (c *mappingCache) key(identifier string) string {
	return fmt.Sprintf("%s%s", c.prefix, identifier)
}
