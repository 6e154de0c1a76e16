// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/justadios/adios/internal/domain/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByZoomUserID(ctx context.Context, zoomUserID string) (*models.User, error) {
	args := m.Called(ctx, zoomUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetMeetingByZoomUUID(ctx context.Context, zoomUUID string) (*models.Meeting, error) {
	args := m.Called(ctx, zoomUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) CreateMeetingIfAbsent(ctx context.Context, meeting *models.Meeting) (bool, error) {
	args := m.Called(ctx, meeting)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) ListOpenMeetings(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListMeetingsByUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

// MockMeetingProvider implements MeetingProvider for testing
type MockMeetingProvider struct {
	mock.Mock
}

func (m *MockMeetingProvider) ListLiveMeetings(ctx context.Context, accessToken string) ([]*models.ProviderMeeting, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProviderMeeting), args.Error(1)
}

func (m *MockMeetingProvider) EndMeeting(ctx context.Context, accessToken string, meetingID int64) error {
	args := m.Called(ctx, accessToken, meetingID)
	return args.Error(0)
}

// MockOAuthProvider implements OAuthProvider for testing
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthToken, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OAuthToken), args.Error(1)
}

func (m *MockOAuthProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OAuthToken), args.Error(1)
}

func (m *MockOAuthProvider) CurrentUser(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OAuthUserInfo), args.Error(1)
}

// MockJobQueue implements JobQueue for testing
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job *JobMessage) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
