package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler periodically extends the persisted player-count series.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       func(ctx context.Context) error
	interval  time.Duration
}

// New creates a Scheduler that runs job every interval.
func New(interval time.Duration, job func(ctx context.Context) error) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		job:       job,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	hours := int(s.interval.Hours())
	if hours <= 0 {
		hours = 6
	}

	_, err := s.scheduler.Every(hours).Hours().Do(func() {
		log.Println("scheduler: running ingestion job")

		// A multi-day catch-up can take a while; bound it generously.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := s.job(ctx); err != nil {
			log.Printf("scheduler: ingestion failed: %v", err)
			return
		}
		log.Println("scheduler: completed ingestion job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
