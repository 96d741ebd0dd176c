// Package cache is the read-through cache shared by the stores.
//
// It wraps a sturdyc client: a read checks the key, and on a miss runs the
// fetch function against the source of truth and keeps the result for the
// configured TTL. Concurrent misses on the same key share one fetch. Fetch
// errors are returned to the caller and never cached.
//
// Delete is generational: each key is stored under key#generation, and
// Delete bumps the generation before dropping the old entry. A read that
// starts after Delete therefore never joins a fetch that began before it.
//
// A Cache is safe for concurrent use and is meant to be built once per
// process and shared.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/viccon/sturdyc"
)

// Cache is a TTL-bounded key/value cache.
type Cache struct {
	client *sturdyc.Client[any]
	cfg    Config

	mu   sync.Mutex
	gens map[string]uint64
}

// New builds a Cache from cfg.
func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.options()...,
	)
	return &Cache{client: client, cfg: cfg, gens: map[string]uint64{}}, nil
}

// Config returns the configuration the cache was built with.
func (c *Cache) Config() Config {
	return c.cfg
}

func (c *Cache) storageKey(key string) string {
	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()
	return key + "#" + strconv.FormatUint(gen, 10)
}

// Delete removes key so the next read goes to the source of truth, even
// when a fetch for the old value is still in flight.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	old := c.gens[key]
	c.gens[key] = old + 1
	c.mu.Unlock()
	c.client.Delete(key + "#" + strconv.FormatUint(old, 10))
}

// Size returns the number of entries held. Entries superseded by Delete
// count until their TTL runs out.
func (c *Cache) Size() int {
	return c.client.Size()
}

// GetOrFetch returns the cached value for key, or runs fetch, stores its
// result and returns it.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.client.GetOrFetch(ctx, c.storageKey(key), func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: key %q holds %T", key, v)
	}
	return out, nil
}
