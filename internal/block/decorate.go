package block

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-block/internal/weather"
)

// DefaultCity is used when neither the region nor the caller names a city.
const DefaultCity = "Varanasi"

// State is the visible render state of a region.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Resolver turns a city name into a display model.
type Resolver interface {
	Resolve(ctx context.Context, city string) (weather.DisplayModel, error)
}

// Outcome is the terminal result of one decoration. Err is kept for
// diagnostics only and never reaches the rendered markup.
type Outcome struct {
	ID       string
	City     string
	State    State
	Model    weather.DisplayModel
	Err      error
	Duration time.Duration
}

// Decorator drives a region from Loading to Success or Error.
type Decorator struct {
	resolver    Resolver
	defaultCity string
}

// NewDecorator creates a Decorator. An empty defaultCity selects DefaultCity.
func NewDecorator(resolver Resolver, defaultCity string) *Decorator {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return &Decorator{
		resolver:    resolver,
		defaultCity: defaultCity,
	}
}

// DefaultCity returns the fallback city of this Decorator.
func (d *Decorator) DefaultCity() string {
	return d.defaultCity
}

// Decorate reads the city from the region's authored content and runs the pipeline.
func (d *Decorator) Decorate(ctx context.Context, r Region) Outcome {
	city, _ := CityFromMarkup(r.HTML())
	return d.Run(ctx, r, city)
}

// Run decorates r for city; an empty city selects the default. The region
// is always left in a terminal state.
func (d *Decorator) Run(ctx context.Context, r Region, city string) Outcome {
	return d.RunWithID(ctx, r, city, uuid.NewString())
}

// RunWithID is Run with a caller-supplied invocation id for log correlation.
func (d *Decorator) RunWithID(ctx context.Context, r Region, city, id string) (out Outcome) {
	if city == "" {
		city = d.defaultCity
	}

	start := time.Now()
	out = Outcome{ID: id, City: city, State: StateLoading}

	RenderLoading(r)

	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("panic: %v", rec)
			out.State = StateError
			log.Printf("ERROR: weather block %s failed for %q: %v", id, city, out.Err)
			RenderError(r, DefaultErrorMessage)
		}
		out.Duration = time.Since(start)
	}()

	model, err := d.resolver.Resolve(ctx, city)
	if err != nil {
		// Every failure kind collapses to the same user-facing message.
		log.Printf("ERROR: weather block %s failed for %q (%s): %v", id, city, weather.Kind(err), err)
		RenderError(r, DefaultErrorMessage)
		out.State = StateError
		out.Err = err
		return out
	}

	RenderSuccess(r, model)
	out.State = StateSuccess
	out.Model = model
	return out
}
