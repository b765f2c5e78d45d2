package domain

import "time"

// Slot is a bookable observation window. Start/end are stored as UTC
// instants; at most one slot may start per UTC calendar day and no two
// slot intervals may overlap.
type Slot struct {
	ID              int64
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	MaxBookings     int
	Available       bool
	WeatherRating   *float64
	WeatherWarning  bool
	WeatherForecast bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Started reports whether the slot's window has begun at the given instant.
func (s *Slot) Started(now time.Time) bool {
	return !now.Before(s.StartTime)
}
