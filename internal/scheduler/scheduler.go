package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/farmsight/internal/farm"
	"github.com/i474232898/farmsight/internal/weather"
)

// Refresher is the part of farm.Session the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, mode weather.Mode) (weather.ForecastResult, error)
}

// Scheduler periodically refreshes the farm forecast.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(refresher Refresher, interval, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if s.refresher == nil {
		log.Println("scheduler: no refresher configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Second {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.refresher.Refresh(ctx, weather.ModeAuto)
	switch {
	case errors.Is(err, farm.ErrRefreshInProgress):
		log.Println("scheduler: refresh already running; skipping")
	case err != nil:
		log.Printf("scheduler: refresh failed: %v", err)
	default:
		log.Printf("scheduler: forecast refreshed from %s", res.Source)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
