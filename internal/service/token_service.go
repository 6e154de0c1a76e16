// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package service contains the business logic of the adios service.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/logging"
	"github.com/justadios/adios/internal/metrics"
)

// TokenService resolves usable access tokens for users, refreshing them
// through the OAuth provider when they are expired or about to expire.
type TokenService struct {
	userRepository domain.UserRepository
	oauthProvider  domain.OAuthProvider
	metrics        *metrics.Metrics
}

// NewTokenService creates a new TokenService.
func NewTokenService(
	userRepository domain.UserRepository,
	oauthProvider domain.OAuthProvider,
	m *metrics.Metrics,
) *TokenService {
	return &TokenService{
		userRepository: userRepository,
		oauthProvider:  oauthProvider,
		metrics:        m,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *TokenService) ServiceReady() bool {
	return s.userRepository != nil && s.oauthProvider != nil
}

// GetAccessToken returns a usable access token for the user. The durable
// user row is re-read on every call so a refresh done elsewhere is
// picked up instead of repeated. There is no retry here: a failed
// refresh propagates and the caller's requeue is the retry.
func (s *TokenService) GetAccessToken(ctx context.Context, userUID string) (string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return "", domain.NewUnavailableError("service not initialized")
	}

	user, err := s.userRepository.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}

	if !user.IsAccessTokenExpired(time.Now()) {
		return user.AccessToken, nil
	}

	slog.DebugContext(ctx, "access token expired, refreshing", "user_uid", userUID)

	token, err := s.oauthProvider.RefreshAccessToken(ctx, user.RefreshToken)
	if err != nil {
		s.metrics.TokenRefreshFails.Inc()
		slog.ErrorContext(ctx, "failed to refresh access token",
			logging.ErrKey, err, "user_uid", userUID)
		return "", domain.NewUnavailableError("failed to refresh access token", err)
	}

	user.AccessToken = token.AccessToken
	user.TokenExpiresAt = token.ExpiresAt
	// Zoom rotates refresh tokens; losing the new one strands the user.
	if token.RefreshToken != "" {
		user.RefreshToken = token.RefreshToken
	}

	// Last writer wins. Concurrent refreshes both end up with valid
	// credentials and the later save is the surviving row.
	if err := s.userRepository.SaveUser(ctx, user); err != nil {
		return "", err
	}

	s.metrics.TokenRefreshes.Inc()
	return user.AccessToken, nil
}
