package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viccon/sturdyc"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *sturdyc.TestClock) {
	t.Helper()
	clock := sturdyc.NewTestClock(time.Now())
	cfg := SuggestionConfig()
	cfg.TTL = ttl
	cfg.Clock = clock
	c, err := New(cfg)
	require.NoError(t, err)
	return c, clock
}

func TestGetOrFetch_CachesWithinTTL(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return []string{"first"}, nil
		}
		return []string{"second"}, nil
	}

	got, err := GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, got)

	clock.Add(30 * time.Second)
	got, err = GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, got, "value inside TTL must come from cache")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrFetch_RefetchesAfterTTL(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	first, err := GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), first)

	clock.Add(2 * time.Minute)
	second, err := GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), second)
}

func TestDelete_ForcesRefetch(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	c.Delete("k")

	got, err := GetOrFetch(ctx, c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)
}

func TestDelete_DuringInFlightFetch(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	var stored atomic.Value
	stored.Store("before-vote")

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		v := stored.Load().(string)
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		return v, nil
	}

	firstDone := make(chan string)
	go func() {
		v, err := GetOrFetch(ctx, c, "SuggestionData", fetch)
		assert.NoError(t, err)
		firstDone <- v
	}()
	<-started

	// Write commits and invalidates while the first read is still fetching.
	stored.Store("after-vote")
	c.Delete("SuggestionData")

	got, err := GetOrFetch(ctx, c, "SuggestionData", fetch)
	require.NoError(t, err)
	assert.Equal(t, "after-vote", got, "read after invalidation must not share the older fetch")

	close(release)
	assert.Equal(t, "before-vote", <-firstDone)

	got, err = GetOrFetch(ctx, c, "SuggestionData", fetch)
	require.NoError(t, err)
	assert.Equal(t, "after-vote", got, "late result of the older fetch must not be served")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrFetch_ErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	boom := errors.New("db down")

	_, err := GetOrFetch(ctx, c, "k", func(ctx context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	got, err := GetOrFetch(ctx, c, "k", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestGetOrFetch_TypeMismatch(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, err := GetOrFetch(ctx, c, "k", func(ctx context.Context) (string, error) {
		return "text", nil
	})
	require.NoError(t, err)

	_, err = GetOrFetch(ctx, c, "k", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"reference defaults", func(c *Config) { *c = ReferenceConfig() }, false},
		{"suggestion defaults", func(c *Config) {}, false},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, true},
		{"zero shards", func(c *Config) { c.NumShards = 0 }, true},
		{"zero ttl", func(c *Config) { c.TTL = 0 }, true},
		{"eviction over 100", func(c *Config) { c.EvictionPercentage = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SuggestionConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
