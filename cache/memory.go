// Package cache
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process Guard used when no redis is configured.
type Memory struct {
	keys *gocache.Cache
}

// NewMemory keeps keys for ttl; a non-positive ttl keeps them until released.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		return &Memory{keys: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory{keys: gocache.New(ttl, ttl)}
}

// Acquire adds key unless a live entry holds it. Add is atomic, so concurrent callers
// cannot both win.
func (m *Memory) Acquire(_ context.Context, key string) (bool, error) {
	if err := m.keys.Add(key, struct{}{}, gocache.DefaultExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.keys.Delete(key)
	return nil
}
