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

// maxUpdateAttempts bounds the re-read loop around revision-checked
// meeting writes.
const maxUpdateAttempts = 3

// MeetingService owns meeting discovery and the read paths over tracked
// meetings.
type MeetingService struct {
	userRepository    domain.UserRepository
	meetingRepository domain.MeetingRepository
	meetingProvider   domain.MeetingProvider
	tokenService      *TokenService
	jobQueue          domain.JobQueue
	metrics           *metrics.Metrics
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	userRepository domain.UserRepository,
	meetingRepository domain.MeetingRepository,
	meetingProvider domain.MeetingProvider,
	tokenService *TokenService,
	jobQueue domain.JobQueue,
	m *metrics.Metrics,
) *MeetingService {
	return &MeetingService{
		userRepository:    userRepository,
		meetingRepository: meetingRepository,
		meetingProvider:   meetingProvider,
		tokenService:      tokenService,
		jobQueue:          jobQueue,
		metrics:           m,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.userRepository != nil &&
		s.meetingRepository != nil &&
		s.meetingProvider != nil &&
		s.tokenService != nil &&
		s.jobQueue != nil
}

// CheckLiveMeetings fans discovery out to a per-user job for every
// authorized user. One user's failure must not block the rest, which is
// why the per-user work is its own queue job rather than inline.
func (s *MeetingService) CheckLiveMeetings(ctx context.Context) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	users, err := s.userRepository.ListAllUsers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing users for discovery", logging.ErrKey, err)
		return err
	}

	for _, user := range users {
		payload, err := msgpack.Marshal(&domain.CheckLiveUserMeetingsPayload{UserUID: user.UID})
		if err != nil {
			return domain.NewInternalError("failed to encode discovery payload", err)
		}

		err = s.jobQueue.Enqueue(ctx, &domain.JobMessage{
			Name:    domain.JobCheckLiveUserMeetings,
			Key:     user.UID,
			Origin:  domain.JobOriginJob,
			Payload: payload,
		})
		if err != nil {
			slog.ErrorContext(ctx, "error enqueueing per-user discovery",
				logging.ErrKey, err, "user_uid", user.UID)
			return err
		}
	}

	slog.DebugContext(ctx, "discovery fanned out", "users", len(users))
	return nil
}

// CheckLiveUserMeetings asks Zoom for the user's live meetings and
// starts tracking any that are not known yet. A meeting already created
// by the started webhook wins; discovery is the safety net for webhooks
// that never arrived.
func (s *MeetingService) CheckLiveUserMeetings(ctx context.Context, userUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	accessToken, err := s.tokenService.GetAccessToken(ctx, userUID)
	if err != nil {
		return err
	}

	liveMeetings, err := s.meetingProvider.ListLiveMeetings(ctx, accessToken)
	if err != nil {
		slog.ErrorContext(ctx, "error listing live meetings",
			logging.ErrKey, err, "user_uid", userUID)
		return err
	}

	for _, live := range liveMeetings {
		// Discovery has no trustworthy per-instance start time, so the
		// first observation is the tracked start.
		meeting := &models.Meeting{
			UserUID:         userUID,
			ZoomMeetingID:   live.ID,
			ZoomMeetingUUID: live.UUID,
			Topic:           live.Topic,
			StartTime:       time.Now().UTC(),
		}

		created, err := s.meetingRepository.CreateMeetingIfAbsent(ctx, meeting)
		if err != nil {
			slog.ErrorContext(ctx, "error tracking discovered meeting",
				logging.ErrKey, err, "zoom_meeting_uuid", live.UUID)
			return err
		}
		if created {
			s.metrics.MeetingsDiscover.Inc()
			slog.InfoContext(ctx, "discovered live meeting",
				"user_uid", userUID,
				"zoom_meeting_id", live.ID,
				"zoom_meeting_uuid", live.UUID,
				"topic", live.Topic,
			)
		}
	}

	return nil
}

// ListLiveMeetingsForUser queries Zoom for the user's currently live
// meetings. This is a passthrough read; it does not start tracking.
func (s *MeetingService) ListLiveMeetingsForUser(ctx context.Context, userUID string) ([]*models.ProviderMeeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}

	accessToken, err := s.tokenService.GetAccessToken(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return s.meetingProvider.ListLiveMeetings(ctx, accessToken)
}

// GetMeeting returns a tracked meeting by UID.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}
	return s.meetingRepository.GetMeeting(ctx, meetingUID)
}

// ListMeetingsForUser returns the meetings owned by the user.
func (s *MeetingService) ListMeetingsForUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}
	return s.meetingRepository.ListMeetingsByUser(ctx, userUID)
}

// SetMeetingMaxLength sets or clears the per-meeting length override.
// Only the owner may change it.
func (s *MeetingService) SetMeetingMaxLength(ctx context.Context, userUID, meetingUID string, maxMinutes *int) (*models.Meeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}
	if maxMinutes != nil && *maxMinutes <= 0 {
		return nil, domain.NewValidationError("max meeting length must be positive")
	}

	// Revision-checked write. Losing the race to another writer, such
	// as the ended webhook closing the row, means re-reading and
	// applying the override to the fresh row instead of clobbering it.
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		meeting, err := s.meetingRepository.GetMeeting(ctx, meetingUID)
		if err != nil {
			return nil, err
		}
		if meeting.UserUID != userUID {
			return nil, domain.NewNotFoundError("meeting not found")
		}

		meeting.MaxMeetingLengthMinutes = maxMinutes

		err = s.meetingRepository.UpdateMeeting(ctx, meeting)
		if err == nil {
			return meeting, nil
		}
		if domain.GetErrorType(err) != domain.ErrorTypeConflict {
			return nil, err
		}
	}

	return nil, domain.NewConflictError("meeting record kept changing while updating it")
}
