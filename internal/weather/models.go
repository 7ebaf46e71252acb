package weather

import "math"

// GeoPoint is the first match of a geocoding lookup.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// Observation is a single point-in-time reading of current conditions.
// Fields the upstream omitted stay nil.
type Observation struct {
	TemperatureC  *float64 `json:"temperatureC,omitempty"`
	ConditionCode *int     `json:"conditionCode,omitempty"`

	// Condition is the classified label for ConditionCode.
	Condition string `json:"condition"`
}

// DisplayModel is everything the success card needs.
type DisplayModel struct {
	City      string  `json:"city"`
	TempC     float64 `json:"tempC"`
	Condition string  `json:"condition"`
}

// RoundedTemp rounds TempC to the nearest whole degree, halves towards +Inf.
func (m DisplayModel) RoundedTemp() int {
	return int(math.Floor(m.TempC + 0.5))
}
