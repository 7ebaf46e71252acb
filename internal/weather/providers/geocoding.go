package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-block/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultGeocodingURL is the Open-Meteo geocoding search endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocoder implements weather.Geocoder against the Open-Meteo search API.
type OpenMeteoGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
}

// NewOpenMeteoGeocoder creates a geocoder. An empty baseURL selects
// DefaultGeocodingURL; breaker may be nil.
func NewOpenMeteoGeocoder(client *http.Client, baseURL string, breaker *gobreaker.CircuitBreaker) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Breaker: breaker,
		},
	}
}

// Geocode returns the first match for city, or weather.ErrCityNotFound.
func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, city string) (weather.GeoPoint, error) {
	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")

	u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
		} `json:"results"`
	}

	if err := fetchJSON(ctx, g.httpCfg, u, nil, &payload); err != nil {
		return weather.GeoPoint{}, err
	}

	if len(payload.Results) == 0 {
		return weather.GeoPoint{}, weather.ErrCityNotFound
	}

	first := payload.Results[0]
	return weather.GeoPoint{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Name:      first.Name,
	}, nil
}
