// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterJob_DuplicateName(t *testing.T) {
	s := NewScheduler()

	err := s.RegisterJob(JobFunc{JobName: "sweep", JobSchedule: "@every 30s",
		RunFunc: func(ctx context.Context) error { return nil }})
	require.NoError(t, err)

	err = s.RegisterJob(JobFunc{JobName: "sweep", JobSchedule: "@every 30s",
		RunFunc: func(ctx context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestScheduler_Start_InvalidSchedule(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterJob(JobFunc{JobName: "bad", JobSchedule: "invalid",
		RunFunc: func(ctx context.Context) error { return nil }}))

	assert.Error(t, s.Start())
}

func TestScheduler_Start_AcceptsDescriptors(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterJob(JobFunc{JobName: "discovery", JobSchedule: "@every 5m",
		RunFunc: func(ctx context.Context) error { return nil }}))
	require.NoError(t, s.RegisterJob(JobFunc{JobName: "sweep", JobSchedule: "@every 30s",
		RunFunc: func(ctx context.Context) error { return nil }}))

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterJob(JobFunc{JobName: "noop", JobSchedule: "* * * * *",
		RunFunc: func(ctx context.Context) error { return nil }}))

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))
}
