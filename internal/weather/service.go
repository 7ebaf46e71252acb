package weather

import (
	"context"
	"fmt"
	"log"
)

// Service turns a city name into a DisplayModel by chaining a geocoder and a
// current-conditions provider. It keeps no state between calls.
type Service struct {
	geocoder Geocoder
	provider Provider
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, provider Provider) *Service {
	return &Service{
		geocoder: geocoder,
		provider: provider,
	}
}

// Resolve geocodes city, then fetches current conditions for the match.
// The provider is only called once geocoding succeeded.
func (s *Service) Resolve(ctx context.Context, city string) (DisplayModel, error) {
	point, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		return DisplayModel{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	log.Printf("DEBUG: resolved %q to %s (%.4f, %.4f)", city, point.Name, point.Latitude, point.Longitude)

	obs, err := s.provider.Current(ctx, point)
	if err != nil {
		return DisplayModel{}, fmt.Errorf("%s current conditions: %w", s.provider.Name(), err)
	}

	return BuildDisplayModel(city, point, obs)
}

// BuildDisplayModel combines a geocoding match and an observation. The
// original query stands in for an empty resolved name.
func BuildDisplayModel(query string, point GeoPoint, obs Observation) (DisplayModel, error) {
	if obs.TemperatureC == nil {
		return DisplayModel{}, ErrIncompleteObservation
	}

	name := point.Name
	if name == "" {
		name = query
	}

	condition := obs.Condition
	if condition == "" {
		condition = Classify(obs.ConditionCode)
	}

	return DisplayModel{
		City:      name,
		TempC:     *obs.TemperatureC,
		Condition: condition,
	}, nil
}
