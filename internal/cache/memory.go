package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local Cache with a fixed TTL. It serves the cost
// cache when no Redis address is configured.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", ErrMiss
	}
	return v.(string), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.items.SetDefault(key, string(value))
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range m.items.Items() {
		if strings.HasPrefix(k, prefix) {
			m.items.Delete(k)
		}
	}
	return nil
}

// Len returns the number of unexpired entries.
func (m *MemoryCache) Len() int {
	return len(m.items.Items())
}
