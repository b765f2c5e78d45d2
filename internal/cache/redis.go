// Package cache provides forecast caches keyed by (latitude, longitude,
// timezone). Cached forecasts bound external API call volume: slot writes
// and the periodic refresh reuse the same fetch for the TTL window.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecarponi/obsbook/config"
	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/weather"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	forecastTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, forecastTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		forecastTTL: forecastTTL,
	}
}

// forecastEntry is the wire form of one cached hour: the UTC instant plus
// its metrics, flattened for JSON.
type forecastEntry struct {
	Time              time.Time `json:"time"`
	DewPoint          float64   `json:"dew_point"`
	PrecipProbability float64   `json:"precipitation_probability"`
	CloudCover        float64   `json:"cloud_cover"`
	Visibility        float64   `json:"visibility"`
}

func (c *RedisCache) GetForecast(ctx context.Context, latitude, longitude float64, tz string) (weather.Forecast, error) {
	data, err := c.client.Get(ctx, forecastKey(latitude, longitude, tz)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var entries []forecastEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	forecast := make(weather.Forecast, len(entries))
	for _, e := range entries {
		forecast[e.Time.UTC()] = domain.HourlyMetrics{
			DewPoint:          e.DewPoint,
			PrecipProbability: e.PrecipProbability,
			CloudCover:        e.CloudCover,
			Visibility:        e.Visibility,
		}
	}
	return forecast, nil
}

func (c *RedisCache) SetForecast(ctx context.Context, latitude, longitude float64, tz string, forecast weather.Forecast) error {
	entries := make([]forecastEntry, 0, len(forecast))
	for ts, m := range forecast {
		entries = append(entries, forecastEntry{
			Time:              ts,
			DewPoint:          m.DewPoint,
			PrecipProbability: m.PrecipProbability,
			CloudCover:        m.CloudCover,
			Visibility:        m.Visibility,
		})
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, forecastKey(latitude, longitude, tz), payload, c.forecastTTL).Err()
}

func forecastKey(latitude, longitude float64, tz string) string {
	return fmt.Sprintf("cache:forecast:%v:%v:%s", latitude, longitude, tz)
}
