// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/logging"
	"github.com/justadios/adios/internal/metrics"
)

// SweepService runs the termination sweep: it finds tracked meetings
// that have used up their allowed length and ends them on Zoom.
type SweepService struct {
	userRepository    domain.UserRepository
	meetingRepository domain.MeetingRepository
	meetingProvider   domain.MeetingProvider
	tokenService      *TokenService
	jobQueue          domain.JobQueue
	metrics           *metrics.Metrics
}

// NewSweepService creates a new SweepService.
func NewSweepService(
	userRepository domain.UserRepository,
	meetingRepository domain.MeetingRepository,
	meetingProvider domain.MeetingProvider,
	tokenService *TokenService,
	jobQueue domain.JobQueue,
	m *metrics.Metrics,
) *SweepService {
	return &SweepService{
		userRepository:    userRepository,
		meetingRepository: meetingRepository,
		meetingProvider:   meetingProvider,
		tokenService:      tokenService,
		jobQueue:          jobQueue,
		metrics:           m,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *SweepService) ServiceReady() bool {
	return s.userRepository != nil &&
		s.meetingRepository != nil &&
		s.meetingProvider != nil &&
		s.tokenService != nil &&
		s.jobQueue != nil
}

// EndActiveMeetings enqueues an EndMeeting job for every open meeting.
// The duration judgement lives in the per-meeting job, which re-reads
// the row right before acting, so a cap raised after the sweep tick is
// still honored. Fanning out also keeps one slow or broken Zoom call
// from stalling the sweep.
func (s *SweepService) EndActiveMeetings(ctx context.Context) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	openMeetings, err := s.meetingRepository.ListOpenMeetings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing open meetings", logging.ErrKey, err)
		return err
	}

	for _, meeting := range openMeetings {
		payload, err := msgpack.Marshal(&domain.EndMeetingPayload{MeetingUID: meeting.UID})
		if err != nil {
			return domain.NewInternalError("failed to encode end meeting payload", err)
		}

		err = s.jobQueue.Enqueue(ctx, &domain.JobMessage{
			Name:    domain.JobEndMeeting,
			Key:     meeting.UID,
			Origin:  domain.JobOriginJob,
			Payload: payload,
		})
		if err != nil {
			slog.ErrorContext(ctx, "error enqueueing meeting termination",
				logging.ErrKey, err, "meeting_uid", meeting.UID)
			return err
		}
	}

	slog.DebugContext(ctx, "termination sweep fanned out", "meetings", len(openMeetings))
	return nil
}

// EndMeeting ends one meeting on Zoom if it has exceeded its allowed
// length. The comparison runs against the current row, not the state at
// enqueue time, and a meeting still inside its cap is a no-op. The
// tracked end time is never written here: Zoom emits a meeting.ended
// webhook for forced terminations too, and that webhook is the single
// closer of records.
func (s *SweepService) EndMeeting(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	meeting, err := s.meetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		return err
	}

	if meeting.IsEnded() {
		// The ended webhook beat this job. Nothing to do.
		slog.InfoContext(ctx, "meeting already ended, skipping termination",
			"meeting_uid", meeting.UID)
		return nil
	}

	owner, err := s.userRepository.GetUser(ctx, meeting.UserUID)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return err
		}
		// A missing owner must not exempt the meeting from the cap;
		// the system default applies.
		slog.WarnContext(ctx, "owner not found for open meeting, using default length",
			logging.ErrKey, err, "meeting_uid", meeting.UID)
		owner = nil
	}

	now := time.Now()
	if meeting.Duration(now) <= meeting.MaxDuration(owner) {
		slog.DebugContext(ctx, "meeting is within its allowed length",
			"meeting_uid", meeting.UID,
			"duration", meeting.Duration(now).String(),
		)
		return nil
	}

	slog.InfoContext(ctx, "meeting is out of time, ending it",
		"meeting_uid", meeting.UID,
		"zoom_meeting_id", meeting.ZoomMeetingID,
		"duration", meeting.Duration(now).String(),
	)

	return s.endOnZoom(ctx, meeting)
}

// ForceEndMeeting ends one meeting on Zoom right away, regardless of how
// long it has run. This is the user-initiated end-now path.
func (s *SweepService) ForceEndMeeting(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	meeting, err := s.meetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		return err
	}

	if meeting.IsEnded() {
		slog.InfoContext(ctx, "meeting already ended, skipping termination",
			"meeting_uid", meeting.UID)
		return nil
	}

	return s.endOnZoom(ctx, meeting)
}

func (s *SweepService) endOnZoom(ctx context.Context, meeting *models.Meeting) error {
	accessToken, err := s.tokenService.GetAccessToken(ctx, meeting.UserUID)
	if err != nil {
		return err
	}

	if err := s.meetingProvider.EndMeeting(ctx, accessToken, meeting.ZoomMeetingID); err != nil {
		slog.ErrorContext(ctx, "error ending meeting on Zoom",
			logging.ErrKey, err,
			"meeting_uid", meeting.UID,
			"zoom_meeting_id", meeting.ZoomMeetingID,
		)
		return err
	}

	s.metrics.MeetingsEnded.Inc()
	slog.InfoContext(ctx, "meeting ended on Zoom",
		"meeting_uid", meeting.UID,
		"zoom_meeting_id", meeting.ZoomMeetingID,
	)
	return nil
}
