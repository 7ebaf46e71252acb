package block

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-block/internal/weather"
	"github.com/i474232898/weather-block/internal/weather/providers"
)

// recordingRegion keeps every markup it was given.
type recordingRegion struct {
	Fragment
	history []string
}

func (r *recordingRegion) SetHTML(markup string) {
	r.history = append(r.history, markup)
	r.Fragment.SetHTML(markup)
}

type resolverFunc func(ctx context.Context, city string) (weather.DisplayModel, error)

func (f resolverFunc) Resolve(ctx context.Context, city string) (weather.DisplayModel, error) {
	return f(ctx, city)
}

func TestDecorateShowsLoadingBeforeResolving(t *testing.T) {
	region := &recordingRegion{Fragment: Fragment{markup: "<div><p>Weather</p><p>Lisbon</p></div>"}}

	var seen string
	d := NewDecorator(resolverFunc(func(ctx context.Context, city string) (weather.DisplayModel, error) {
		seen = region.HTML()
		return weather.DisplayModel{City: city, TempC: 18.2, Condition: "Clear sky"}, nil
	}), "")

	out := d.Decorate(context.Background(), region)

	if !strings.Contains(seen, "weather-skeleton") {
		t.Fatalf("expected loading state while resolving, got %s", seen)
	}
	if out.State != StateSuccess || out.City != "Lisbon" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(region.history) != 2 {
		t.Fatalf("expected exactly two renders, got %d", len(region.history))
	}
	if out.ID == "" {
		t.Fatal("expected an invocation id")
	}
}

func TestDecorateDefaultsCity(t *testing.T) {
	var got string
	d := NewDecorator(resolverFunc(func(ctx context.Context, city string) (weather.DisplayModel, error) {
		got = city
		return weather.DisplayModel{City: city}, nil
	}), "")

	d.Decorate(context.Background(), NewFragment("<div><p>Weather</p></div>"))
	if got != DefaultCity {
		t.Fatalf("expected default city %q, got %q", DefaultCity, got)
	}

	d = NewDecorator(d.resolver, "Kyoto")
	d.Run(context.Background(), NewFragment(""), "")
	if got != "Kyoto" {
		t.Fatalf("expected configured default, got %q", got)
	}
}

func TestDecorateCollapsesFailures(t *testing.T) {
	failures := []error{
		weather.ErrCityNotFound,
		&weather.RequestFailedError{StatusCode: 500},
		&weather.TransportError{Err: errors.New("dial tcp: connection refused")},
		&weather.ParseError{Err: errors.New("unexpected EOF")},
		weather.ErrIncompleteObservation,
	}

	for _, failure := range failures {
		region := NewFragment("")
		d := NewDecorator(resolverFunc(func(ctx context.Context, city string) (weather.DisplayModel, error) {
			return weather.DisplayModel{}, failure
		}), "")

		out := d.Run(context.Background(), region, "Paris")

		if out.State != StateError || !errors.Is(out.Err, failure) {
			t.Fatalf("%v: unexpected outcome %+v", failure, out)
		}
		want := `<div class="weather-error" role="alert">` + DefaultErrorMessage + `</div>`
		if region.HTML() != want {
			t.Fatalf("%v: expected default error markup, got %s", failure, region.HTML())
		}
	}
}

func TestDecorateRecoversPanic(t *testing.T) {
	region := NewFragment("")
	d := NewDecorator(resolverFunc(func(ctx context.Context, city string) (weather.DisplayModel, error) {
		panic("boom")
	}), "")

	out := d.Run(context.Background(), region, "Paris")
	if out.State != StateError || out.Err == nil {
		t.Fatalf("expected error outcome, got %+v", out)
	}
	if !strings.Contains(region.HTML(), "weather-error") {
		t.Fatalf("expected error markup, got %s", region.HTML())
	}
}

// upstreams starts fake geocoding and forecast servers.
func upstreams(t *testing.T, geoBody, forecastBody string, forecastStatus int) (*Decorator, *int32) {
	t.Helper()

	var forecastCalls int32
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geoBody))
	}))
	t.Cleanup(geo.Close)

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forecastCalls, 1)
		w.WriteHeader(forecastStatus)
		w.Write([]byte(forecastBody))
	}))
	t.Cleanup(forecast.Close)

	client := &http.Client{Timeout: 5 * time.Second}
	svc := weather.NewService(
		providers.NewOpenMeteoGeocoder(client, geo.URL, nil),
		providers.NewOpenMeteoProvider(client, forecast.URL, nil),
	)
	return NewDecorator(svc, ""), &forecastCalls
}

func TestDecorateEndToEnd(t *testing.T) {
	d, _ := upstreams(t,
		`{"results":[{"latitude":1.0,"longitude":2.0,"name":"Testville"}]}`,
		`{"current":{"temperature_2m":21.6,"weather_code":2}}`,
		http.StatusOK,
	)

	region := NewFragment("<div><p>Weather</p></div>")
	out := d.Decorate(context.Background(), region)

	if out.City != DefaultCity {
		t.Fatalf("expected query %q, got %q", DefaultCity, out.City)
	}
	if out.State != StateSuccess {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Model.City != "Testville" || out.Model.RoundedTemp() != 22 || out.Model.Condition != "Partly cloudy" {
		t.Fatalf("unexpected model %+v", out.Model)
	}

	got := region.HTML()
	for _, want := range []string{"Testville", "22°C", "Partly cloudy"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %s", want, got)
		}
	}
	if strings.Contains(got, "weather-skeleton") || strings.Contains(got, "weather-error") {
		t.Fatalf("residual markup after success: %s", got)
	}
}

func TestDecorateEndToEndCityNotFound(t *testing.T) {
	d, forecastCalls := upstreams(t,
		`{"results":[]}`,
		`{"current":{"temperature_2m":21.6,"weather_code":2}}`,
		http.StatusOK,
	)

	region := NewFragment("")
	out := d.Decorate(context.Background(), region)

	if out.State != StateError || !errors.Is(out.Err, weather.ErrCityNotFound) {
		t.Fatalf("expected city-not-found error, got %+v", out)
	}
	if n := atomic.LoadInt32(forecastCalls); n != 0 {
		t.Fatalf("forecast endpoint must not be called, got %d calls", n)
	}
	if !strings.Contains(region.HTML(), DefaultErrorMessage) {
		t.Fatalf("expected default error message, got %s", region.HTML())
	}
}

func TestDecorateEndToEndForecastFailure(t *testing.T) {
	d, _ := upstreams(t,
		`{"results":[{"latitude":1.0,"longitude":2.0,"name":"Testville"}]}`,
		`{"reason":"down"}`,
		http.StatusServiceUnavailable,
	)

	region := NewFragment("")
	out := d.Run(context.Background(), region, "Testville")

	var reqErr *weather.RequestFailedError
	if out.State != StateError || !errors.As(out.Err, &reqErr) {
		t.Fatalf("expected request failure, got %+v", out)
	}
	if strings.Contains(region.HTML(), "Testville") {
		t.Fatalf("no partial data may be shown: %s", region.HTML())
	}
}

func TestDecorateEndToEndMissingTemperature(t *testing.T) {
	d, _ := upstreams(t,
		`{"results":[{"latitude":1.0,"longitude":2.0,"name":"Testville"}]}`,
		`{"current":{"weather_code":0}}`,
		http.StatusOK,
	)

	out := d.Run(context.Background(), NewFragment(""), "Testville")
	if out.State != StateError || !errors.Is(out.Err, weather.ErrIncompleteObservation) {
		t.Fatalf("expected incomplete observation error, got %+v", out)
	}
}
