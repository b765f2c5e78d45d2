// Package weather turns Open-Meteo hourly forecasts into 0-100 observation
// suitability ratings.
package weather

import (
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
)

// Scoring weights and thresholds. The four component ratings are each 0-100;
// the composite is their weighted sum.
const (
	weightCloudCover = 0.4
	weightPrecip     = 0.3
	weightDewPoint   = 0.15
	weightVisibility = 0.15

	dewPointLowC    = 5.0
	dewPointHighC   = 10.0
	idealVisibility = 20000.0 // meters
)

// HourlyRating scores a single hour of observations.
func HourlyRating(m domain.HourlyMetrics) float64 {
	cloudRating := 100.0 - m.CloudCover
	if cloudRating < 0 {
		cloudRating = 0
	}

	precipRating := 100.0 - m.PrecipProbability
	if precipRating < 0 {
		precipRating = 0
	}

	var dewRating float64
	switch {
	case m.DewPoint < dewPointLowC:
		dewRating = 100.0
	case m.DewPoint <= dewPointHighC:
		dewRating = 100.0 - (m.DewPoint-dewPointLowC)*(100.0/(dewPointHighC-dewPointLowC))
	default:
		dewRating = 0.0
	}

	visibilityRating := m.Visibility / idealVisibility * 100.0
	if visibilityRating > 100.0 {
		visibilityRating = 100.0
	}

	return weightCloudCover*cloudRating +
		weightPrecip*precipRating +
		weightDewPoint*dewRating +
		weightVisibility*visibilityRating
}

// AverageRating is the arithmetic mean of the hourly ratings, 0 for no data.
func AverageRating(hours []domain.HourlyMetrics) float64 {
	if len(hours) == 0 {
		return 0
	}
	var sum float64
	for _, h := range hours {
		sum += HourlyRating(h)
	}
	return sum / float64(len(hours))
}

// HourlyRange returns the hour-aligned instants covering [start, end]
// inclusive, in the given location. Start is floored to the hour.
func HourlyRange(start, end time.Time, loc *time.Location) []time.Time {
	start = start.In(loc)
	end = end.In(loc)
	// Floor to the wall-clock hour; Truncate would misalign in zones with
	// fractional UTC offsets.
	start = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, loc)

	total := int(end.Sub(start).Hours()) + 1
	hours := make([]time.Time, 0, total)
	for i := 0; i < total; i++ {
		hours = append(hours, start.Add(time.Duration(i)*time.Hour))
	}
	return hours
}
