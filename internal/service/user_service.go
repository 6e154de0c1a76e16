// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/logging"
)

// UserService owns user onboarding through OAuth and user settings.
type UserService struct {
	userRepository domain.UserRepository
	oauthProvider  domain.OAuthProvider
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepository domain.UserRepository,
	oauthProvider domain.OAuthProvider,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		oauthProvider:  oauthProvider,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *UserService) ServiceReady() bool {
	return s.userRepository != nil && s.oauthProvider != nil
}

// OAuthLoginURL builds the Zoom consent page URL.
func (s *UserService) OAuthLoginURL(state string) string {
	return s.oauthProvider.AuthCodeURL(state)
}

// CompleteOAuthLogin finishes the authorization code flow: it trades
// the code for tokens, resolves the Zoom account, and upserts the user
// row. Re-authorizing an already known account replaces its stored
// credentials.
func (s *UserService) CompleteOAuthLogin(ctx context.Context, code string) (*models.User, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}
	if code == "" {
		return nil, domain.NewValidationError("authorization code is required")
	}

	token, err := s.oauthProvider.ExchangeCode(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "error exchanging authorization code", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("failed to exchange authorization code", err)
	}

	info, err := s.oauthProvider.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		slog.ErrorContext(ctx, "error resolving authorized account", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("failed to resolve authorized account", err)
	}

	user, err := s.userRepository.GetUserByZoomUserID(ctx, info.ID)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return nil, err
		}
		user = &models.User{ZoomUserID: info.ID}
	}

	user.DisplayName = info.DisplayName
	user.Email = info.Email
	user.AccessToken = token.AccessToken
	user.RefreshToken = token.RefreshToken
	user.TokenExpiresAt = token.ExpiresAt

	if err := s.userRepository.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user authorized",
		"user_uid", user.UID,
		"zoom_user_id", user.ZoomUserID,
	)
	return user, nil
}

// GetUser returns a user by UID.
func (s *UserService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}
	return s.userRepository.GetUser(ctx, userUID)
}

// SetDefaultMeetingLength sets or clears the user's default meeting
// length. A nil value falls back to the system default.
func (s *UserService) SetDefaultMeetingLength(ctx context.Context, userUID string, minutes *int) (*models.User, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("service not initialized")
	}
	if minutes != nil && *minutes <= 0 {
		return nil, domain.NewValidationError("default meeting length must be positive")
	}

	user, err := s.userRepository.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	user.DefaultMeetingLengthMinutes = minutes
	if err := s.userRepository.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
