// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/justadios/adios/internal/domain/models"
)

// MeetingProvider defines the interface for the external meeting platform.
// Implementations authenticate with the access token supplied per call so
// that callers can resolve a fresh token first.
type MeetingProvider interface {
	// ListLiveMeetings returns the meetings currently running for the
	// authenticated user.
	ListLiveMeetings(ctx context.Context, accessToken string) ([]*models.ProviderMeeting, error)

	// EndMeeting forcibly ends a live meeting on the platform.
	EndMeeting(ctx context.Context, accessToken string, meetingID int64) error
}

// OAuthToken is the credential set returned by the OAuth provider.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// OAuthUserInfo identifies the platform account a token belongs to.
type OAuthUserInfo struct {
	ID          string
	DisplayName string
	Email       string
}

// OAuthProvider defines the interface for the platform's OAuth flows.
type OAuthProvider interface {
	// AuthCodeURL builds the consent page URL for the given state.
	AuthCodeURL(state string) string

	// ExchangeCode trades an authorization code for a token set.
	ExchangeCode(ctx context.Context, code string) (*OAuthToken, error)

	// RefreshAccessToken trades a refresh token for a new token set.
	// The returned refresh token may be rotated and must be persisted.
	RefreshAccessToken(ctx context.Context, refreshToken string) (*OAuthToken, error)

	// CurrentUser returns the account the access token belongs to.
	CurrentUser(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}
