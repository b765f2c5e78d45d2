package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ecarponi/obsbook/internal/domain"
)

const defaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// Forecast maps hour-aligned instants to their metrics. Keys are UTC
// normalized so that map lookups are not sensitive to the Location pointer
// inside time.Time.
type Forecast map[time.Time]domain.HourlyMetrics

// At returns the metrics for the hour containing t, if present.
func (f Forecast) At(t time.Time) (domain.HourlyMetrics, bool) {
	m, ok := f[t.UTC()]
	return m, ok
}

// Client fetches hourly forecasts over HTTP. Transient upstream failures
// (429, 5xx) are retried with exponential backoff; anything irrecoverable
// degrades to an empty forecast instead of an error, so weather never
// blocks scheduling.
type Client struct {
	endpoint   string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

type ClientOption func(*Client)

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// hourlyPayload is the "hourly" object of the Open-Meteo response:
// parallel arrays indexed by hour.
type hourlyPayload struct {
	Time              []string  `json:"time"`
	DewPoint2m        []float64 `json:"dew_point_2m"`
	PrecipProbability []float64 `json:"precipitation_probability"`
	CloudCover        []float64 `json:"cloud_cover"`
	Visibility        []float64 `json:"visibility"`
}

type forecastPayload struct {
	Hourly hourlyPayload `json:"hourly"`
}

// FetchHourly retrieves the hourly forecast for the coordinates, with
// timestamps interpreted in the given IANA timezone. Returns an empty
// forecast on failure.
func (c *Client) FetchHourly(ctx context.Context, latitude, longitude float64, tz string) Forecast {
	url := fmt.Sprintf(
		"%s?latitude=%v&longitude=%v&hourly=dew_point_2m,precipitation_probability,cloud_cover,visibility&timezone=%s",
		c.endpoint, latitude, longitude, tz,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		log.Printf("weather: fetch failed: %v", err)
		return Forecast{}
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("weather: decode response: %v", err)
		return Forecast{}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("weather: unknown timezone %q: %v", tz, err)
		return Forecast{}
	}

	return parseHourly(payload.Hourly, loc)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}
		lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
		if !retryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// parseHourly zips the parallel arrays into a typed hour map. Entries with
// unparseable timestamps are skipped; array length mismatches are clipped
// to the shortest.
func parseHourly(h hourlyPayload, loc *time.Location) Forecast {
	n := len(h.Time)
	for _, l := range []int{len(h.DewPoint2m), len(h.PrecipProbability), len(h.CloudCover), len(h.Visibility)} {
		if l < n {
			n = l
		}
	}

	forecast := make(Forecast, n)
	for i := 0; i < n; i++ {
		ts, err := time.ParseInLocation("2006-01-02T15:04", h.Time[i], loc)
		if err != nil {
			log.Printf("weather: skipping entry with bad timestamp %q: %v", h.Time[i], err)
			continue
		}
		forecast[ts.UTC()] = domain.HourlyMetrics{
			DewPoint:          h.DewPoint2m[i],
			PrecipProbability: h.PrecipProbability[i],
			CloudCover:        h.CloudCover[i],
			Visibility:        h.Visibility[i],
		}
	}
	return forecast
}
