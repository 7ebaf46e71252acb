package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrCityNotFound is returned when geocoding yields no results.
	ErrCityNotFound = errors.New("city not found")
	// ErrIncompleteObservation is returned when the conditions response has no temperature.
	ErrIncompleteObservation = errors.New("observation has no temperature")
)

// RequestFailedError reports a non-2xx upstream response.
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed: HTTP %d", e.StatusCode)
}

// TransportError wraps DNS, connection, timeout and cancellation failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a body that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Kind returns a stable label for err, suitable for logs and metrics.
func Kind(err error) string {
	var (
		reqErr       *RequestFailedError
		transportErr *TransportError
		parseErr     *ParseError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCityNotFound):
		return "city_not_found"
	case errors.Is(err, ErrIncompleteObservation):
		return "incomplete_observation"
	case errors.As(err, &reqErr):
		return "request_failed"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "unknown"
	}
}
