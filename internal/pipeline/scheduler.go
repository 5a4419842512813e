package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reconciliation sweep on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	log     *slog.Logger
}

// NewScheduler creates a Scheduler that runs the sweep every sweepInterval.
func NewScheduler(
	sw *Sweeper,
	sweepInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		sweeper: sw,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+sweepInterval.String(), s.runSweep); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runSweep() {
	ctx := context.Background()
	demoted, err := s.sweeper.Run(ctx)
	if err != nil {
		s.log.Error("scheduled sweep failed", "error", err)
		return
	}
	if demoted > 0 {
		s.log.Info("scheduled sweep demoted stuck items", "count", demoted)
	}
}
