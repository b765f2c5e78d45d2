package domain

import (
	"fmt"
	"time"
)

// Configuration is the singleton row of site tunables. Opening and closing
// times are local wall-clock values in "15:04" form.
type Configuration struct {
	ID                  int64
	Latitude            float64
	Longitude           float64
	Timezone            string
	WeatherThreshold    int
	MaxBookingsPerEvent int
	DefaultOpeningTime  string
	DefaultClosingTime  string
}

// DefaultConfiguration returns the values used when no configuration row
// exists yet.
func DefaultConfiguration() Configuration {
	return Configuration{
		Latitude:            41.8933203,
		Longitude:           12.4829321,
		Timezone:            "Europe/Rome",
		WeatherThreshold:    70,
		MaxBookingsPerEvent: 10,
		DefaultOpeningTime:  "17:00",
		DefaultClosingTime:  "22:00",
	}
}

// Validate checks the numeric ranges and wall-clock formats.
func (c *Configuration) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	if c.WeatherThreshold < 0 || c.WeatherThreshold > 100 {
		return fmt.Errorf("weather threshold %d out of range [0, 100]", c.WeatherThreshold)
	}
	if c.MaxBookingsPerEvent < 1 {
		return fmt.Errorf("max bookings per event must be at least 1, got %d", c.MaxBookingsPerEvent)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	for _, v := range []string{c.DefaultOpeningTime, c.DefaultClosingTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("invalid wall-clock time %q: %w", v, err)
		}
	}
	return nil
}

// Location resolves the configured IANA timezone.
func (c *Configuration) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
