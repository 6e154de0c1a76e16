// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// DefaultMaxMeetingLengthMinutes is the system-wide meeting length cap
// used when neither the meeting nor its owner specifies one.
const DefaultMaxMeetingLengthMinutes = 40

// Meeting represents a single tracked meeting instance. A row is created
// when the service first learns of a live instance, either from the
// started webhook or from periodic discovery, and closed exactly once
// when the ended webhook arrives.
type Meeting struct {
	UID                     string     `json:"uid"`
	UserUID                 string     `json:"user_uid"`
	ZoomMeetingID           int64      `json:"zoom_meeting_id"`
	ZoomMeetingUUID         string     `json:"zoom_meeting_uuid"`
	Topic                   string     `json:"topic,omitempty"`
	StartTime               time.Time  `json:"start_time"`
	EndTime                 *time.Time `json:"end_time,omitempty"`
	MaxMeetingLengthMinutes *int       `json:"max_meeting_length_minutes,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	// Revision is the store revision the row was read at. Writes are
	// rejected when the row has moved past it, so a stale read cannot
	// overwrite a concurrent change such as the end time being set.
	Revision uint64 `json:"-"`
}

// IsEnded reports whether the meeting has been closed.
func (m *Meeting) IsEnded() bool {
	return m.EndTime != nil
}

// Duration returns how long the meeting has run. For an ended meeting it
// is the recorded span; for a live one it is measured against now.
func (m *Meeting) Duration(now time.Time) time.Duration {
	if m.EndTime != nil {
		return m.EndTime.Sub(m.StartTime)
	}
	return now.Sub(m.StartTime)
}

// MaxDuration resolves the length cap for this meeting. The per-meeting
// override wins over the owner's default, which wins over the system
// default. The owner may be nil when the caller has no user row.
func (m *Meeting) MaxDuration(owner *User) time.Duration {
	minutes := DefaultMaxMeetingLengthMinutes
	if owner != nil && owner.DefaultMeetingLengthMinutes != nil {
		minutes = *owner.DefaultMeetingLengthMinutes
	}
	if m.MaxMeetingLengthMinutes != nil {
		minutes = *m.MaxMeetingLengthMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// MinutesRemaining returns whole minutes until the meeting reaches its
// cap. The value is negative once the meeting has overrun.
func (m *Meeting) MinutesRemaining(owner *User, now time.Time) int {
	remaining := m.MaxDuration(owner) - m.Duration(now)
	return int(remaining.Minutes())
}
