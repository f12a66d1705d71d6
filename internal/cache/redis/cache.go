package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/narabot/narabot/internal/domain"
)

const keyPrefix = "narabot:search:"

// Cache - redis-бэкенд кеша результатов. Значения лежат в JSON;
// TTL отдан самому redis.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// New парсит redisURL и проверяет соединение до первого использования.
func New(ctx context.Context, redisURL string, logger *zap.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Cache{client: client, logger: logger}, nil
}

func (c *Cache) Get(key string) (*domain.SearchResult, bool) {
	data, err := c.client.Get(context.Background(), keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis get failed", zap.Error(err))
		}
		return nil, false
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("redis cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *Cache) Set(key string, result *domain.SearchResult, ttl time.Duration) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("marshal cached result failed", zap.Error(err))
		return
	}
	if err := c.client.Set(context.Background(), keyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.Error(err))
	}
}

func (c *Cache) Delete(key string) {
	if err := c.client.Del(context.Background(), keyPrefix+key).Err(); err != nil {
		c.logger.Warn("redis del failed", zap.Error(err))
	}
}

func (c *Cache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Warn("redis close failed", zap.Error(err))
	}
}
