package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-block/internal/block"
	"github.com/i474232898/weather-block/internal/store"
	"github.com/i474232898/weather-block/internal/weather"
)

// ProbeSaver records canary outcomes.
type ProbeSaver interface {
	SaveProbe(p store.Probe)
}

// Scheduler periodically decorates throw-away regions for the configured
// canary cities and records how each one ended.
type Scheduler struct {
	scheduler *gocron.Scheduler
	decorator *block.Decorator
	probes    ProbeSaver
	cities    []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, decorator *block.Decorator, probes ProbeSaver) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		decorator: decorator,
		probes:    probes,
		cities:    cities,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("INFO: scheduler: no canary cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("INFO: scheduler: running weather canary job")
		s.RunOnce(context.Background())
		log.Println("INFO: scheduler: completed weather canary job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce probes every canary city concurrently and waits for all of them.
// Each city gets its own region; nothing is shared between probes.
func (s *Scheduler) RunOnce(ctx context.Context) {
	var wg sync.WaitGroup
	for _, city := range s.cities {
		wg.Add(1)
		go func(city string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			out := s.decorator.Run(ctx, block.NewFragment(""), city)
			s.probes.SaveProbe(toProbe(out))

			if out.State != block.StateSuccess {
				log.Printf("scheduler: canary failed for %s: %v", city, out.Err)
			}
		}(city)
	}
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func toProbe(out block.Outcome) store.Probe {
	p := store.Probe{
		City:      out.City,
		State:     out.State.String(),
		Kind:      weather.Kind(out.Err),
		Timestamp: time.Now().UTC(),
		Duration:  out.Duration,
	}
	if out.State == block.StateSuccess {
		temp := out.Model.RoundedTemp()
		p.Resolved = out.Model.City
		p.TempC = &temp
		p.Condition = out.Model.Condition
	}
	return p
}
