// Package cache
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Adapter string

const (
	RedisAdapter  Adapter = "redis"
	MemoryAdapter Adapter = "memory"
)

type Config struct {
	Adapter  Adapter
	URL      string
	DB       int
	Password string

	// KeyTTL bounds how long a consumed submission key is remembered.
	KeyTTL time.Duration

	Logger *zap.Logger
}

// Guard remembers which drafts were already submitted.
type Guard interface {
	// Acquire consumes key and reports false when it was already consumed.
	Acquire(ctx context.Context, key string) (bool, error)
	// Release forgets key so the same draft may be submitted again.
	Release(ctx context.Context, key string) error
}

func New(cfg Config) (Guard, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	case MemoryAdapter, "":
		return NewMemory(cfg.KeyTTL), nil
	}
	return nil, errors.New("invalid cache config")
}

func newRedis(cfg Config) (Guard, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	logger := cfg.Logger.With(zap.String("cache", "redis"))
	return &Redis{
		client: redisClient,
		ttl:    cfg.KeyTTL,
		logger: logger,
	}, nil
}
