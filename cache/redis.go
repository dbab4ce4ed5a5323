// Package cache
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	KeySubmission = "#submission#%s"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration

	logger *zap.Logger
}

func (c *Redis) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, fmt.Sprintf(KeySubmission, key), time.Now().Unix(), c.ttl).Result()
	if err != nil {
		c.logger.Warn("cannot acquire submission key", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return ok, nil
}

func (c *Redis) Release(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, fmt.Sprintf(KeySubmission, key)).Err(); err != nil {
		c.logger.Warn("cannot release submission key", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
