package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ecarponi/obsbook/internal/weather"
)

// MemoryCache is an in-process forecast cache with per-entry expiry. It is
// the default when no redis address is configured, and its injectable clock
// makes expiry deterministic in tests.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	forecast  weather.Forecast
	expiresAt time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// WithClock replaces the time source. Test hook.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) GetForecast(_ context.Context, latitude, longitude float64, tz string) (weather.Forecast, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := forecastKey(latitude, longitude, tz)
	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}
	return entry.forecast, nil
}

func (c *MemoryCache) SetForecast(_ context.Context, latitude, longitude float64, tz string, forecast weather.Forecast) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[forecastKey(latitude, longitude, tz)] = memoryEntry{
		forecast:  forecast,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}
