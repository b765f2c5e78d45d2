package weather

import (
	"testing"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHourlyRating_IdealConditions(t *testing.T) {
	rating := HourlyRating(domain.HourlyMetrics{
		CloudCover:        0,
		PrecipProbability: 0,
		DewPoint:          0,
		Visibility:        20000,
	})
	assert.InDelta(t, 100.0, rating, 1e-9)
}

func TestHourlyRating_WorstConditions(t *testing.T) {
	rating := HourlyRating(domain.HourlyMetrics{
		CloudCover:        100,
		PrecipProbability: 100,
		DewPoint:          10,
		Visibility:        0,
	})
	assert.InDelta(t, 0.0, rating, 1e-9)
}

func TestHourlyRating_DewPointRamp(t *testing.T) {
	// Midpoint of the 5-10°C ramp contributes a dew rating of 50.
	rating := HourlyRating(domain.HourlyMetrics{
		CloudCover:        0,
		PrecipProbability: 0,
		DewPoint:          7.5,
		Visibility:        20000,
	})
	// 0.4*100 + 0.3*100 + 0.15*50 + 0.15*100
	assert.InDelta(t, 92.5, rating, 1e-9)

	below := HourlyRating(domain.HourlyMetrics{DewPoint: 4.9, Visibility: 20000})
	above := HourlyRating(domain.HourlyMetrics{DewPoint: 10.1, Visibility: 20000})
	assert.InDelta(t, 100.0, below, 1e-9)
	assert.InDelta(t, 85.0, above, 1e-9)
}

func TestHourlyRating_VisibilityCapped(t *testing.T) {
	capped := HourlyRating(domain.HourlyMetrics{Visibility: 50000})
	exact := HourlyRating(domain.HourlyMetrics{Visibility: 20000})
	assert.InDelta(t, exact, capped, 1e-9)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))

	hours := []domain.HourlyMetrics{
		{CloudCover: 0, PrecipProbability: 0, DewPoint: 0, Visibility: 20000},
		{CloudCover: 100, PrecipProbability: 100, DewPoint: 10, Visibility: 0},
	}
	assert.InDelta(t, 50.0, AverageRating(hours), 1e-9)
}

func TestHourlyRange_InclusiveAndFloored(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)

	hours := HourlyRange(start, end, time.UTC)
	assert.Len(t, hours, 5)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC), hours[0])
	assert.Equal(t, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC), hours[4])
}

func TestHourlyRange_CrossesMidnight(t *testing.T) {
	start := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)

	hours := HourlyRange(start, end, time.UTC)
	assert.Len(t, hours, 3)
	assert.Equal(t, time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), hours[2])
}

func TestHourlyRange_ConvertsToLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	assert.NoError(t, err)

	// 18:00 UTC in June is 20:00 in Rome (CEST).
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	hours := HourlyRange(start, end, rome)
	assert.Len(t, hours, 2)
	assert.Equal(t, 20, hours[0].Hour())
}
