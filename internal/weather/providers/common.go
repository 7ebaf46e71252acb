package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/i474232898/weather-block/internal/weather"
	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client and an optional circuit breaker.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker *gobreaker.CircuitBreaker
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// NewBreaker returns the breaker used when upstream protection is enabled.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// fetchJSON performs a single GET and decodes the JSON body into out.
// Caller headers are applied first; Accept is always application/json.
func fetchJSON(ctx context.Context, cfg HTTPClientConfig, rawURL string, header http.Header, out any) error {
	if cfg.Client == nil {
		return errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	do := func() (*http.Response, error) {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, &weather.TransportError{Err: err}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &weather.RequestFailedError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	}

	var resp *http.Response
	if cfg.Breaker == nil {
		resp, err = do()
	} else {
		resp, err = executeWithBreaker(cfg.Breaker, do)
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &weather.ParseError{Err: err}
	}
	return nil
}

func executeWithBreaker(cb *gobreaker.CircuitBreaker, do func() (*http.Response, error)) (*http.Response, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return do()
	})
	if err != nil {
		// If circuit is open, report it like any other unreachable upstream.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.TransportError{Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
