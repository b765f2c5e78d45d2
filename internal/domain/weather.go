package domain

// HourlyMetrics is one hour of forecast observations as returned by the
// weather API: cloud cover and precipitation probability in percent, dew
// point in °C, visibility in meters.
type HourlyMetrics struct {
	CloudCover        float64
	PrecipProbability float64
	DewPoint          float64
	Visibility        float64
}

// WeatherAssessment summarizes the forecast over a slot's window.
// Rating is nil when no hourly data covered the window.
type WeatherAssessment struct {
	Rating          *float64
	Warning         bool
	ForecastPresent bool
}
