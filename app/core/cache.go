package core

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/knova-ai/knova/pkg/types"
)

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) types.Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *redisCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.client.SetEx(ctx, key, value, expiresAt).Err()
}
