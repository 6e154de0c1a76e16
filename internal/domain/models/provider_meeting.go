// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// Zoom meeting types as reported by the Zoom API.
const (
	ZoomMeetingTypeInstant              = 1
	ZoomMeetingTypeScheduled            = 2
	ZoomMeetingTypeRecurringNoFixedTime = 3
	ZoomMeetingTypePersonalMeetingRoom  = 4
	ZoomMeetingTypeRecurringFixedTime   = 8
)

// zoomTimeLayout is the timestamp layout used by the Zoom meetings API.
const zoomTimeLayout = "2006-01-02T15:04:05Z"

// ProviderMeeting is a live meeting as reported by the Zoom API.
type ProviderMeeting struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	HostID    string `json:"host_id"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	CreatedAt string `json:"created_at"`
	StartTime string `json:"start_time,omitempty"`
	JoinURL   string `json:"join_url,omitempty"`
}

// CreatedAtTime parses the creation timestamp reported by Zoom.
func (m *ProviderMeeting) CreatedAtTime() (time.Time, error) {
	t, err := time.Parse(zoomTimeLayout, m.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing meeting created_at %q: %w", m.CreatedAt, err)
	}
	return t, nil
}

// LiveDuration returns how long the meeting has been running, measured
// from its creation timestamp. Only instant meetings carry a creation
// time that tracks the live instance; personal meeting rooms in
// particular report the room's creation date, which can be years old,
// so any other type is an error rather than a wildly wrong duration.
func (m *ProviderMeeting) LiveDuration(now time.Time) (time.Duration, error) {
	if m.Type == ZoomMeetingTypePersonalMeetingRoom {
		return 0, fmt.Errorf("meeting %d is a personal meeting room, live duration is not computable", m.ID)
	}
	if m.Type != ZoomMeetingTypeInstant {
		return 0, fmt.Errorf("meeting %d has type %d, live duration is only computable for instant meetings", m.ID, m.Type)
	}
	createdAt, err := m.CreatedAtTime()
	if err != nil {
		return 0, err
	}
	return now.Sub(createdAt), nil
}
