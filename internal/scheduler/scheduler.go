// Package scheduler drives the periodic run of every configured application.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// RunFunc executes one full run across all applications. The returned error
// only marks the outcome in the scheduler status.
type RunFunc func(ctx context.Context) error

// Status describes the scheduler for API responses.
type Status struct {
	Enabled        bool       `json:"enabled"`
	IntervalHours  int        `json:"intervalHours"`
	Running        bool       `json:"running"`
	NextRun        *time.Time `json:"nextRun,omitempty"`
	LastRun        *time.Time `json:"lastRun,omitempty"`
	LastRunSuccess *bool      `json:"lastRunSuccess,omitempty"`
}

// Service owns the periodic job. Reconfigure replaces the job in place, so
// interval changes made through the API take effect without a restart.
type Service struct {
	gocron gocron.Scheduler
	run    RunFunc
	logger zerolog.Logger

	mu             sync.RWMutex
	job            gocron.Job
	enabled        bool
	intervalHours  int
	running        bool
	lastRun        *time.Time
	lastRunSuccess *bool
}

// New creates a scheduler service. The job is not created until Reconfigure
// enables it.
func New(run RunFunc, logger zerolog.Logger) (*Service, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Service{
		gocron: gs,
		run:    run,
		logger: logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Start starts the underlying scheduler. Safe to call before Reconfigure.
func (s *Service) Start() {
	s.logger.Info().Msg("starting scheduler")
	s.gocron.Start()
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Service) Stop() error {
	s.logger.Info().Msg("stopping scheduler")
	return s.gocron.Shutdown()
}

// Reconfigure applies new scheduler settings. The existing job, if any, is
// removed first; when enabled a fresh interval job replaces it.
func (s *Service) Reconfigure(enabled bool, intervalHours int) error {
	if intervalHours < 1 {
		return fmt.Errorf("interval must be at least one hour, got %d", intervalHours)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job != nil {
		if err := s.gocron.RemoveJob(s.job.ID()); err != nil {
			s.logger.Warn().Err(err).Msg("failed to remove existing job")
		}
		s.job = nil
	}

	s.enabled = enabled
	s.intervalHours = intervalHours

	if !enabled {
		s.logger.Info().Msg("scheduler disabled")
		return nil
	}

	job, err := s.gocron.NewJob(
		gocron.DurationJob(time.Duration(intervalHours)*time.Hour),
		gocron.NewTask(s.execute),
		gocron.WithName("search-run"),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	s.job = job

	s.logger.Info().Int("intervalHours", intervalHours).Msg("scheduler enabled")
	return nil
}

func (s *Service) execute() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("previous run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	s.logger.Info().Msg("starting scheduled run")

	err := s.run(context.Background())
	success := err == nil

	s.mu.Lock()
	s.running = false
	s.lastRun = &start
	s.lastRunSuccess = &success
	s.mu.Unlock()

	duration := time.Since(start)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", duration).Msg("scheduled run failed")
	} else {
		s.logger.Info().Dur("duration", duration).Msg("scheduled run completed")
	}
}

// Status returns the current scheduler state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Enabled:        s.enabled,
		IntervalHours:  s.intervalHours,
		Running:        s.running,
		LastRun:        s.lastRun,
		LastRunSuccess: s.lastRunSuccess,
	}

	if s.job != nil {
		if next, err := s.job.NextRun(); err == nil {
			status.NextRun = &next
		}
	}
	return status
}
