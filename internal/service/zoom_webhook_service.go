// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/logging"
	"github.com/justadios/adios/internal/metrics"
)

// ZoomWebhookService applies Zoom webhook events to the meeting store.
type ZoomWebhookService struct {
	userRepository    domain.UserRepository
	meetingRepository domain.MeetingRepository
	metrics           *metrics.Metrics
}

// NewZoomWebhookService creates a new ZoomWebhookService.
func NewZoomWebhookService(
	userRepository domain.UserRepository,
	meetingRepository domain.MeetingRepository,
	m *metrics.Metrics,
) *ZoomWebhookService {
	return &ZoomWebhookService{
		userRepository:    userRepository,
		meetingRepository: meetingRepository,
		metrics:           m,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ZoomWebhookService) ServiceReady() bool {
	return s.userRepository != nil && s.meetingRepository != nil
}

// HandleMeetingStarted starts tracking the meeting instance from a
// meeting.started event. An event for a host no user has authorized is
// rejected; Zoom should only deliver events for installed accounts.
func (s *ZoomWebhookService) HandleMeetingStarted(ctx context.Context, event *models.ZoomWebhookEvent) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	payload, err := event.ToMeetingStartedPayload()
	if err != nil {
		return domain.NewValidationError("invalid meeting.started payload", err)
	}
	if payload.Object.UUID == "" {
		return domain.NewValidationError("meeting.started payload is missing a meeting uuid")
	}

	user, err := s.userRepository.GetUserByZoomUserID(ctx, payload.Object.HostID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "meeting started for unknown host",
				"zoom_host_id", payload.Object.HostID,
				"zoom_meeting_uuid", payload.Object.UUID,
			)
			return domain.NewValidationError("unknown meeting host")
		}
		return err
	}

	meetingID, err := strconv.ParseInt(payload.Object.ID, 10, 64)
	if err != nil {
		return domain.NewValidationError("meeting.started payload has a non-numeric meeting id", err)
	}

	startTime := payload.Object.StartTime
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}

	meeting := &models.Meeting{
		UserUID:         user.UID,
		ZoomMeetingID:   meetingID,
		ZoomMeetingUUID: payload.Object.UUID,
		Topic:           payload.Object.Topic,
		StartTime:       startTime,
	}

	created, err := s.meetingRepository.CreateMeetingIfAbsent(ctx, meeting)
	if err != nil {
		return err
	}
	if !created {
		// Discovery got there first. The existing record stands.
		slog.InfoContext(ctx, "meeting already tracked, ignoring started event",
			"zoom_meeting_uuid", payload.Object.UUID)
		return nil
	}

	slog.InfoContext(ctx, "tracking meeting from started event",
		"meeting_uid", meeting.UID,
		"zoom_meeting_id", meetingID,
		"zoom_meeting_uuid", payload.Object.UUID,
	)
	return nil
}

// HandleMeetingEnded closes the tracked record from a meeting.ended
// event. The close is monotonic: once an end time is set it is never
// moved, so a redelivered event is a no-op.
func (s *ZoomWebhookService) HandleMeetingEnded(ctx context.Context, event *models.ZoomWebhookEvent) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	payload, err := event.ToMeetingEndedPayload()
	if err != nil {
		return domain.NewValidationError("invalid meeting.ended payload", err)
	}
	if payload.Object.UUID == "" {
		return domain.NewValidationError("meeting.ended payload is missing a meeting uuid")
	}

	endTime := payload.Object.EndTime
	if endTime.IsZero() {
		endTime = time.Now().UTC()
	}

	// The write is revision checked; a concurrent writer means the row
	// moved under us, so re-read and apply the close to the fresh row.
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		meeting, err := s.meetingRepository.GetMeetingByZoomUUID(ctx, payload.Object.UUID)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				slog.WarnContext(ctx, "ended event for untracked meeting",
					"zoom_meeting_uuid", payload.Object.UUID)
				return domain.NewValidationError("meeting instance is not tracked")
			}
			return err
		}

		if meeting.IsEnded() {
			slog.InfoContext(ctx, "meeting already ended, ignoring ended event",
				"meeting_uid", meeting.UID)
			return nil
		}

		meeting.EndTime = &endTime

		err = s.meetingRepository.UpdateMeeting(ctx, meeting)
		if err == nil {
			slog.InfoContext(ctx, "meeting ended",
				"meeting_uid", meeting.UID,
				"zoom_meeting_uuid", payload.Object.UUID,
				"duration", meeting.Duration(endTime).String(),
			)
			return nil
		}
		if domain.GetErrorType(err) != domain.ErrorTypeConflict {
			return err
		}
	}

	return domain.NewConflictError("meeting record kept changing while closing it")
}

// HandleParticipantEvent acknowledges participant joined and left
// events. The service tracks meetings, not attendance, so these are
// accepted and dropped.
func (s *ZoomWebhookService) HandleParticipantEvent(ctx context.Context, event *models.ZoomWebhookEvent) error {
	payload, err := event.ToParticipantEventPayload()
	if err != nil {
		return domain.NewValidationError("invalid participant event payload", err)
	}

	slog.DebugContext(ctx, "ignoring participant event",
		"event", event.Event,
		"zoom_meeting_uuid", payload.Object.UUID,
		"participant", payload.Object.Participant.UserName,
	)
	return nil
}
