package cache

import (
	"fmt"
	"time"

	"github.com/viccon/sturdyc"
)

// Config describes one sturdyc-backed cache. Every entry in a cache shares
// the same TTL, so callers needing two lifetimes build two caches.
type Config struct {
	// Capacity is the maximum number of entries before eviction kicks in.
	Capacity int

	// NumShards splits the key space to reduce lock contention.
	NumShards int

	// TTL is how long an entry is served before the next read refetches it.
	TTL time.Duration

	// EvictionPercentage is the share of entries dropped when Capacity is hit.
	EvictionPercentage int

	// Clock overrides the wall clock. Tests pass sturdyc.NewTestClock.
	Clock sturdyc.Clock
}

// ReferenceConfig is used for categories and statuses: they are append-only
// in practice, so a day-long TTL is safe.
func ReferenceConfig() Config {
	return Config{
		Capacity:           64,
		NumShards:          4,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// SuggestionConfig is used for the shared suggestion list and the per-user
// lists. These tolerate up to a minute of staleness.
func SuggestionConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                60 * time.Second,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration before the client is built.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("cache: capacity must be greater than 0")
	}
	if c.NumShards <= 0 {
		return fmt.Errorf("cache: num shards must be greater than 0")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache: ttl must be greater than 0")
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return fmt.Errorf("cache: eviction percentage must be between 1 and 100")
	}
	return nil
}

func (c Config) options() []sturdyc.Option {
	var opts []sturdyc.Option
	if c.Clock != nil {
		opts = append(opts, sturdyc.WithClock(c.Clock))
	}
	return opts
}
