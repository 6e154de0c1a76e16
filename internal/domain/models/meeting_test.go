// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestMeeting_MaxDuration(t *testing.T) {
	tests := []struct {
		name     string
		meeting  *Meeting
		owner    *User
		expected time.Duration
	}{
		{
			name:     "meeting override wins over user default",
			meeting:  &Meeting{MaxMeetingLengthMinutes: intPtr(20)},
			owner:    &User{DefaultMeetingLengthMinutes: intPtr(60)},
			expected: 20 * time.Minute,
		},
		{
			name:     "user default wins over system default",
			meeting:  &Meeting{},
			owner:    &User{DefaultMeetingLengthMinutes: intPtr(60)},
			expected: 60 * time.Minute,
		},
		{
			name:     "system default when nothing is set",
			meeting:  &Meeting{},
			owner:    &User{},
			expected: 40 * time.Minute,
		},
		{
			name:     "system default with nil owner",
			meeting:  &Meeting{},
			owner:    nil,
			expected: 40 * time.Minute,
		},
		{
			name:     "meeting override with nil owner",
			meeting:  &Meeting{MaxMeetingLengthMinutes: intPtr(90)},
			owner:    nil,
			expected: 90 * time.Minute,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.meeting.MaxDuration(tc.owner))
		})
	}
}

func TestMeeting_MinutesRemaining(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		meeting  *Meeting
		owner    *User
		expected int
	}{
		{
			name: "2 minutes left of the default cap",
			meeting: &Meeting{
				StartTime: now.Add(-38 * time.Minute),
			},
			owner:    nil,
			expected: 2,
		},
		{
			name: "negative once overrun",
			meeting: &Meeting{
				StartTime: now.Add(-45 * time.Minute),
			},
			owner:    nil,
			expected: -5,
		},
		{
			name: "meeting override applies",
			meeting: &Meeting{
				StartTime:               now.Add(-10 * time.Minute),
				MaxMeetingLengthMinutes: intPtr(20),
			},
			owner:    &User{DefaultMeetingLengthMinutes: intPtr(60)},
			expected: 10,
		},
		{
			name: "ended meeting uses recorded span",
			meeting: &Meeting{
				StartTime: now.Add(-3 * time.Hour),
				EndTime:   timePtr(now.Add(-3*time.Hour + 30*time.Minute)),
			},
			owner:    nil,
			expected: 10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.meeting.MinutesRemaining(tc.owner, now))
		})
	}
}

func TestMeeting_IsEnded(t *testing.T) {
	now := time.Now()

	meeting := &Meeting{StartTime: now.Add(-5 * time.Minute)}
	assert.False(t, meeting.IsEnded())

	meeting.EndTime = &now
	assert.True(t, meeting.IsEnded())
}

func TestMeeting_Duration(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	live := &Meeting{StartTime: now.Add(-25 * time.Minute)}
	assert.Equal(t, 25*time.Minute, live.Duration(now))

	ended := &Meeting{
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   timePtr(now.Add(-2*time.Hour + 41*time.Minute)),
	}
	assert.Equal(t, 41*time.Minute, ended.Duration(now))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
