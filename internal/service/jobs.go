// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/metrics"
)

// JobRegistry is where job handlers are registered, implemented by the
// queue.
type JobRegistry interface {
	Register(name string, handler domain.JobHandler)
}

// RegisterJobs binds every background job to its service method.
func RegisterJobs(
	registry JobRegistry,
	meetingService *MeetingService,
	sweepService *SweepService,
	m *metrics.Metrics,
) {
	instrument := func(name string, run func(ctx context.Context, job *domain.JobMessage) error) domain.JobHandler {
		return func(ctx context.Context, job *domain.JobMessage) error {
			if err := run(ctx, job); err != nil {
				m.JobsFailed.WithLabelValues(name).Inc()
				return err
			}
			m.JobsProcessed.WithLabelValues(name).Inc()
			return nil
		}
	}

	registry.Register(domain.JobCheckLiveMeetings,
		instrument(domain.JobCheckLiveMeetings, func(ctx context.Context, _ *domain.JobMessage) error {
			return meetingService.CheckLiveMeetings(ctx)
		}))

	registry.Register(domain.JobCheckLiveUserMeetings,
		instrument(domain.JobCheckLiveUserMeetings, func(ctx context.Context, job *domain.JobMessage) error {
			var payload domain.CheckLiveUserMeetingsPayload
			if err := msgpack.Unmarshal(job.Payload, &payload); err != nil {
				return domain.NewValidationError("invalid discovery payload", err)
			}
			return meetingService.CheckLiveUserMeetings(ctx, payload.UserUID)
		}))

	registry.Register(domain.JobEndActiveMeetings,
		instrument(domain.JobEndActiveMeetings, func(ctx context.Context, _ *domain.JobMessage) error {
			return sweepService.EndActiveMeetings(ctx)
		}))

	registry.Register(domain.JobEndMeeting,
		instrument(domain.JobEndMeeting, func(ctx context.Context, job *domain.JobMessage) error {
			var payload domain.EndMeetingPayload
			if err := msgpack.Unmarshal(job.Payload, &payload); err != nil {
				return domain.NewValidationError("invalid end meeting payload", err)
			}
			return sweepService.EndMeeting(ctx, payload.MeetingUID)
		}))
}
