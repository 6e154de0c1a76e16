// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/justadios/adios/internal/logging"
)

// Scheduler manages periodic job execution using cron expressions.
// Each job is protected by a per-job mutex so a tick that fires while
// the previous run is still in flight is skipped (uses TryLock).
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	jobs   []Job
	names  map[string]struct{}
	locks  map[string]*sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler. Jobs must be registered before Start().
func NewScheduler() *Scheduler {
	return &Scheduler{
		names: make(map[string]struct{}),
		locks: make(map[string]*sync.Mutex),
	}
}

// RegisterJob adds a job to the scheduler. Must be called before Start().
// Returns an error if a job with the same name is already registered.
func (s *Scheduler) RegisterJob(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := j.Name()
	if _, exists := s.names[name]; exists {
		return fmt.Errorf("cron: duplicate job name %q", name)
	}

	s.names[name] = struct{}{}
	s.locks[name] = &sync.Mutex{}
	s.jobs = append(s.jobs, j)
	return nil
}

// Start initializes the cron scheduler and begins executing registered jobs.
// Returns an error if any job has an invalid schedule expression.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// The default parser accepts @every descriptors, which the sweep
	// jobs rely on for sub-minute intervals.
	s.cron = cron.New()

	for _, job := range s.jobs {
		lock := s.locks[job.Name()]
		jobCtx := logging.AppendCtx(ctx, slog.String("cron_job", job.Name()))

		_, err := s.cron.AddFunc(job.Schedule(), func() {
			// TryLock is atomic. If the previous tick is still
			// running, skip this one.
			if !lock.TryLock() {
				slog.WarnContext(jobCtx, "cron: job still running, skipping tick")
				return
			}
			defer lock.Unlock()

			slog.DebugContext(jobCtx, "cron: job started")
			if err := job.Run(jobCtx); err != nil {
				slog.ErrorContext(jobCtx, "cron: job failed", logging.ErrKey, err)
			} else {
				slog.DebugContext(jobCtx, "cron: job completed")
			}
		})
		if err != nil {
			cancel()
			return fmt.Errorf("cron: invalid schedule for job %q: %w", job.Name(), err)
		}
	}

	s.cron.Start()
	slog.Info("cron: scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for in-flight jobs.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		// Wait for running jobs to complete.
		<-s.cron.Stop().Done()
		slog.Info("cron: scheduler stopped")
	}
	return nil
}
