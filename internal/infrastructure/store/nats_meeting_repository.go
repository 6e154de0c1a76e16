// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// GetMeeting retrieves a meeting by its UID. The row carries the KV
// revision it was read at, which UpdateMeeting uses for optimistic
// concurrency control.
func (s *NatsMeetingRepository) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	entry, err := s.GetRaw(ctx, s.keyBuilder.EntityKey(KeyPrefixMeeting, meetingUID))
	if err != nil {
		return nil, err
	}

	meeting, err := s.Unmarshal(ctx, entry)
	if err != nil {
		return nil, domain.NewInternalError("failed to unmarshal meeting data", err)
	}
	meeting.Revision = entry.Revision()
	return meeting, nil
}

// GetMeetingByZoomUUID retrieves a meeting via the Zoom meeting UUID index.
func (s *NatsMeetingRepository) GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*models.Meeting, error) {
	indexKey := s.keyBuilder.UniqueIndexKey(KeyPrefixIndexUUID, zoomUUID)
	meetingUID, err := s.GetIndexValue(ctx, indexKey)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, domain.NewNotFoundError("meeting with zoom uuid '"+zoomUUID+"' not found", err)
		}
		return nil, err
	}
	return s.GetMeeting(ctx, meetingUID)
}

// CreateMeetingIfAbsent inserts the meeting unless one already exists for
// the same Zoom meeting UUID. The create-only index write is the
// uniqueness constraint: whoever claims the index key first owns the
// record, and every later caller gets a no-op.
func (s *NatsMeetingRepository) CreateMeetingIfAbsent(ctx context.Context, meeting *models.Meeting) (bool, error) {
	if meeting.ZoomMeetingUUID == "" {
		return false, domain.NewValidationError("meeting is missing a zoom meeting uuid")
	}

	now := time.Now().UTC()
	if meeting.UID == "" {
		meeting.UID = uuid.New().String()
	}
	meeting.CreatedAt = now
	meeting.UpdatedAt = now

	indexKey := s.keyBuilder.UniqueIndexKey(KeyPrefixIndexUUID, meeting.ZoomMeetingUUID)
	created, err := s.CreateUniqueIndex(ctx, indexKey, meeting.UID)
	if err != nil {
		return false, err
	}
	if !created {
		existingUID, err := s.GetIndexValue(ctx, indexKey)
		if err != nil {
			return false, err
		}
		if _, err := s.GetMeeting(ctx, existingUID); err == nil {
			slog.DebugContext(ctx, "meeting already tracked, skipping insert",
				"zoom_meeting_uuid", meeting.ZoomMeetingUUID)
			return false, nil
		} else if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return false, err
		}

		// The index exists but the record does not: a previous insert
		// died between the two writes. Adopt the claimed UID and finish
		// the insert so the UUID does not stay untrackable.
		slog.WarnContext(ctx, "repairing torn meeting insert",
			"zoom_meeting_uuid", meeting.ZoomMeetingUUID,
			"meeting_uid", existingUID)
		meeting.UID = existingUID
	}

	if err := s.Put(ctx, s.keyBuilder.EntityKey(KeyPrefixMeeting, meeting.UID), meeting); err != nil {
		return false, err
	}

	if meeting.UserUID != "" {
		userIndexKey := s.keyBuilder.IndexKey(KeyPrefixIndexUser, meeting.UserUID, meeting.UID)
		if err := s.PutIndex(ctx, userIndexKey); err != nil {
			return false, err
		}
	}

	return true, nil
}

// UpdateMeeting writes the meeting record back at the revision it was
// read. A concurrent write since that read yields a conflict error; the
// caller re-reads and decides whether its change still applies.
func (s *NatsMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting) error {
	if meeting.UID == "" {
		return domain.NewValidationError("meeting is missing a UID")
	}
	if meeting.Revision == 0 {
		return domain.NewValidationError("meeting was not read from the store")
	}
	meeting.UpdatedAt = time.Now().UTC()
	return s.Update(ctx, s.keyBuilder.EntityKey(KeyPrefixMeeting, meeting.UID), meeting, meeting.Revision)
}

// ListOpenMeetings lists meetings that have no end time yet.
func (s *NatsMeetingRepository) ListOpenMeetings(ctx context.Context) ([]*models.Meeting, error) {
	meetings, err := s.ListEntities(ctx, KeyPrefixMeeting+"/")
	if err != nil {
		return nil, err
	}

	var open []*models.Meeting
	for _, meeting := range meetings {
		if !meeting.IsEnded() {
			open = append(open, meeting)
		}
	}
	return open, nil
}

// ListMeetingsByUser lists every meeting owned by the user.
func (s *NatsMeetingRepository) ListMeetingsByUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	meetings, err := s.ListEntities(ctx, KeyPrefixMeeting+"/")
	if err != nil {
		return nil, err
	}

	var owned []*models.Meeting
	for _, meeting := range meetings {
		if meeting.UserUID == userUID {
			owned = append(owned, meeting)
		}
	}
	return owned, nil
}
