// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/justadios/adios/internal/domain/models"
)

// UserRepository defines the interface for user storage operations.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByZoomUserID(ctx context.Context, zoomUserID string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	// Bulk operations
	ListAllUsers(ctx context.Context) ([]*models.User, error)
}

// MeetingRepository defines the interface for meeting storage operations.
type MeetingRepository interface {
	GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*models.Meeting, error)

	// CreateMeetingIfAbsent inserts the meeting unless one with the same
	// Zoom meeting UUID already exists. Returns true when the insert
	// happened and false when an existing record won.
	CreateMeetingIfAbsent(ctx context.Context, meeting *models.Meeting) (bool, error)

	UpdateMeeting(ctx context.Context, meeting *models.Meeting) error

	// Bulk operations
	ListOpenMeetings(ctx context.Context) ([]*models.Meeting, error)
	ListMeetingsByUser(ctx context.Context, userUID string) ([]*models.Meeting, error)
}
