// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package cron provides the scheduler for the periodic background jobs
// that drive meeting discovery and the termination sweep.
package cron

import "context"

// Job defines a periodic background task.
type Job interface {
	// Name returns a unique identifier for this job.
	Name() string

	// Schedule returns a cron expression or descriptor (e.g. "@every 30s").
	Schedule() string

	// Run executes the job. Implementations should check ctx.Done() for
	// graceful cancellation.
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName     string
	JobSchedule string
	RunFunc     func(ctx context.Context) error
}

func (j JobFunc) Name() string     { return j.JobName }
func (j JobFunc) Schedule() string { return j.JobSchedule }

func (j JobFunc) Run(ctx context.Context) error {
	return j.RunFunc(ctx)
}
