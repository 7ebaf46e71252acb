package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-block/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultForecastURL is the Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

// NewOpenMeteoProvider creates a provider. An empty baseURL selects
// DefaultForecastURL; breaker may be nil.
func NewOpenMeteoProvider(client *http.Client, baseURL string, breaker *gobreaker.CircuitBreaker) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Breaker: breaker,
		},
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Current fetches temperature_2m and weather_code for point. Intermediate
// caches are told to revalidate; a "current" reading must be fresh.
func (p *OpenMeteoProvider) Current(ctx context.Context, point weather.GeoPoint) (weather.Observation, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(point.Longitude, 'f', -1, 64))
	values.Set("current", "temperature_2m,weather_code")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	header := http.Header{}
	header.Set("Cache-Control", "no-cache")
	header.Set("Pragma", "no-cache")

	var payload struct {
		Current struct {
			Temperature *float64 `json:"temperature_2m"`
			WeatherCode *int     `json:"weather_code"`
		} `json:"current"`
	}

	if err := fetchJSON(ctx, p.httpCfg, u, header, &payload); err != nil {
		return weather.Observation{}, err
	}

	return weather.Observation{
		TemperatureC:  payload.Current.Temperature,
		ConditionCode: payload.Current.WeatherCode,
		Condition:     weather.Classify(payload.Current.WeatherCode),
	}, nil
}
