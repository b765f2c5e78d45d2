// Package forecast implements the weather provider: cached Open-Meteo
// fetches, per-window assessments, and the periodic refresh of upcoming
// slots.
package forecast

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/weather"
)

type ForecastUseCase interface {
	// AssessWindow rates the [start, end] window against the current
	// forecast for the configured location. Fail-soft: a fetch failure
	// yields an assessment with no forecast present, never an error.
	AssessWindow(ctx context.Context, start, end time.Time, cfg *domain.Configuration) domain.WeatherAssessment
	// RefreshUpcoming recomputes the weather fields of every slot
	// starting within the next 7 days and persists them.
	RefreshUpcoming(ctx context.Context) error
}

// Fetcher retrieves an hourly forecast for a location.
type Fetcher interface {
	FetchHourly(ctx context.Context, latitude, longitude float64, tz string) weather.Forecast
}

// Cache stores fetched forecasts for the TTL window.
type Cache interface {
	GetForecast(ctx context.Context, latitude, longitude float64, tz string) (weather.Forecast, error)
	SetForecast(ctx context.Context, latitude, longitude float64, tz string, forecast weather.Forecast) error
}

const refreshWindowDays = 7

type ForecastService struct {
	fetcher Fetcher
	cache   Cache
	slots   repository.SlotRepository
	configs repository.ConfigurationRepository
	now     func() time.Time
}

type ForecastServiceOption func(*ForecastService)

// WithClock replaces the time source. Test hook.
func WithClock(now func() time.Time) ForecastServiceOption {
	return func(s *ForecastService) { s.now = now }
}

func NewForecastService(
	fetcher Fetcher,
	cache Cache,
	slots repository.SlotRepository,
	configs repository.ConfigurationRepository,
	opts ...ForecastServiceOption,
) *ForecastService {
	service := &ForecastService{
		fetcher: fetcher,
		cache:   cache,
		slots:   slots,
		configs: configs,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// fetch returns the hourly forecast for the location, consulting the cache
// first. Cache failures fall through to a direct fetch.
func (s *ForecastService) fetch(ctx context.Context, latitude, longitude float64, tz string) weather.Forecast {
	if s.cache != nil {
		cached, err := s.cache.GetForecast(ctx, latitude, longitude, tz)
		if err != nil {
			log.Printf("forecast: cache read failed: %v", err)
		} else if cached != nil {
			return cached
		}
	}

	forecast := s.fetcher.FetchHourly(ctx, latitude, longitude, tz)
	if s.cache != nil && len(forecast) > 0 {
		if err := s.cache.SetForecast(ctx, latitude, longitude, tz, forecast); err != nil {
			log.Printf("forecast: cache write failed: %v", err)
		}
	}
	return forecast
}

func (s *ForecastService) AssessWindow(ctx context.Context, start, end time.Time, cfg *domain.Configuration) domain.WeatherAssessment {
	forecast := s.fetch(ctx, cfg.Latitude, cfg.Longitude, cfg.Timezone)
	return assess(forecast, start, end, cfg)
}

// assess intersects the hour-aligned window with the forecast and scores
// the matching hours.
func assess(forecast weather.Forecast, start, end time.Time, cfg *domain.Configuration) domain.WeatherAssessment {
	loc, err := cfg.Location()
	if err != nil {
		log.Printf("forecast: bad configured timezone %q: %v", cfg.Timezone, err)
		return domain.WeatherAssessment{}
	}

	var hours []domain.HourlyMetrics
	for _, hour := range weather.HourlyRange(start, end, loc) {
		if m, ok := forecast.At(hour); ok {
			hours = append(hours, m)
		}
	}
	if len(hours) == 0 {
		return domain.WeatherAssessment{}
	}

	rating := weather.AverageRating(hours)
	return domain.WeatherAssessment{
		Rating:          &rating,
		Warning:         rating < float64(cfg.WeatherThreshold),
		ForecastPresent: true,
	}
}

func (s *ForecastService) RefreshUpcoming(ctx context.Context) error {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}

	nowLocal := s.now().In(loc)
	from := nowLocal.UTC()
	to := nowLocal.AddDate(0, 0, refreshWindowDays).UTC()

	slots, err := s.slots.StartingBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load upcoming slots: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}

	forecast := s.fetch(ctx, cfg.Latitude, cfg.Longitude, cfg.Timezone)
	log.Printf("forecast: refreshing weather for %d upcoming slots", len(slots))

	for i := range slots {
		slot := &slots[i]
		a := assess(forecast, slot.StartTime, slot.EndTime, cfg)
		if !a.ForecastPresent {
			// Keep the last known rating; only record that no forecast
			// covered the window this time.
			a.Rating = slot.WeatherRating
			a.Warning = slot.WeatherWarning
		}
		if err := s.slots.UpdateWeather(ctx, slot.ID, a.Rating, a.Warning, a.ForecastPresent); err != nil {
			return fmt.Errorf("update weather for slot %d: %w", slot.ID, err)
		}
	}
	return nil
}

var _ ForecastUseCase = (*ForecastService)(nil)
