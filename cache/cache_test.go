// Package cache
package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemory_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	ok, err := m.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Acquire(ctx, "draft-2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Release(ctx, "draft-1"))
	ok, err = m.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(100 * time.Millisecond)

	ok, _ := m.Acquire(ctx, "draft")
	assert.True(t, ok)
	ok, _ = m.Acquire(ctx, "draft")
	assert.False(t, ok)

	time.Sleep(150 * time.Millisecond)
	ok, _ = m.Acquire(ctx, "draft")
	assert.True(t, ok)
}

func TestMemory_NoTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	ok, _ := m.Acquire(ctx, "draft")
	assert.True(t, ok)
	time.Sleep(50 * time.Millisecond)
	ok, _ = m.Acquire(ctx, "draft")
	assert.False(t, ok)

	require.NoError(t, m.Release(ctx, "draft"))
	ok, _ = m.Acquire(ctx, "draft")
	assert.True(t, ok)
}

func TestMemory_ConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	const callers = 16
	wins := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Acquire(ctx, "draft")
			assert.NoError(t, err)
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)
}

func TestNew_Adapters(t *testing.T) {
	g, err := New(Config{Adapter: MemoryAdapter, Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, g)

	g, err = New(Config{Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, g)

	_, err = New(Config{Adapter: "memcached", Logger: zap.NewNop()})
	assert.Error(t, err)
}

func setupRedis(t *testing.T) *Redis {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %s", err)
	}
	res, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "6-alpine"}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(res) })
	require.NoError(t, res.Expire(60))

	var guard Guard
	require.NoError(t, pool.Retry(func() error {
		var err error
		guard, err = New(Config{
			Adapter: RedisAdapter,
			URL:     fmt.Sprintf("localhost:%s", res.GetPort("6379/tcp")),
			KeyTTL:  time.Minute,
			Logger:  zap.NewNop(),
		})
		return err
	}))
	return guard.(*Redis)
}

func TestRedis_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	r := setupRedis(t)
	defer r.Close()

	ok, err := r.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := r.client.TTL(ctx, fmt.Sprintf(KeySubmission, "draft-1")).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, r.Release(ctx, "draft-1"))
	ok, err = r.Acquire(ctx, "draft-1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.client.Get(ctx, fmt.Sprintf(KeySubmission, "missing")).Result()
	assert.Equal(t, redis.Nil, err)
}
