package weather

import "context"

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (GeoPoint, error)
}

// Provider abstracts a current-conditions source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Current(ctx context.Context, point GeoPoint) (Observation, error)
}
