// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// AccessTokenExpiryBuffer is how close to expiry an access token may be
// before it is treated as expired and refreshed.
const AccessTokenExpiryBuffer = 60 * time.Second

// User represents a Zoom account that has authorized the service.
// The OAuth credentials stored here are the durable source of truth;
// callers must re-read the row before using the access token.
type User struct {
	UID                         string    `json:"uid"`
	ZoomUserID                  string    `json:"zoom_user_id"`
	DisplayName                 string    `json:"display_name,omitempty"`
	Email                       string    `json:"email,omitempty"`
	AccessToken                 string    `json:"access_token"`
	RefreshToken                string    `json:"refresh_token"`
	TokenExpiresAt              time.Time `json:"token_expires_at"`
	DefaultMeetingLengthMinutes *int      `json:"default_meeting_length_minutes,omitempty"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// IsAccessTokenExpired reports whether the access token is expired or
// within the expiry buffer of expiring at the given time.
func (u *User) IsAccessTokenExpired(now time.Time) bool {
	return !now.Add(AccessTokenExpiryBuffer).Before(u.TokenExpiresAt)
}
