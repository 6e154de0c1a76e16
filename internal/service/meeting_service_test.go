// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/metrics"
)

type meetingFixture struct {
	svc         *MeetingService
	userRepo    *domain.MockUserRepository
	meetingRepo *domain.MockMeetingRepository
	provider    *domain.MockMeetingProvider
	queue       *domain.MockJobQueue
}

func newMeetingFixture() *meetingFixture {
	userRepo := &domain.MockUserRepository{}
	meetingRepo := &domain.MockMeetingRepository{}
	provider := &domain.MockMeetingProvider{}
	queue := &domain.MockJobQueue{}
	oauth := &domain.MockOAuthProvider{}
	m := metrics.New()
	tokenService := NewTokenService(userRepo, oauth, m)

	return &meetingFixture{
		svc:         NewMeetingService(userRepo, meetingRepo, provider, tokenService, queue, m),
		userRepo:    userRepo,
		meetingRepo: meetingRepo,
		provider:    provider,
		queue:       queue,
	}
}

func TestMeetingService_CheckLiveMeetings_FansOutPerUser(t *testing.T) {
	f := newMeetingFixture()

	f.userRepo.On("ListAllUsers", mock.Anything).Return([]*models.User{
		{UID: "user-1"},
		{UID: "user-2"},
	}, nil)

	var enqueued []*domain.JobMessage
	f.queue.On("Enqueue", mock.Anything, mock.AnythingOfType("*domain.JobMessage")).
		Run(func(args mock.Arguments) {
			enqueued = append(enqueued, args.Get(1).(*domain.JobMessage))
		}).Return(nil)

	require.NoError(t, f.svc.CheckLiveMeetings(context.Background()))

	require.Len(t, enqueued, 2)
	for i, userUID := range []string{"user-1", "user-2"} {
		assert.Equal(t, domain.JobCheckLiveUserMeetings, enqueued[i].Name)
		assert.Equal(t, userUID, enqueued[i].Key)

		var payload domain.CheckLiveUserMeetingsPayload
		require.NoError(t, msgpack.Unmarshal(enqueued[i].Payload, &payload))
		assert.Equal(t, userUID, payload.UserUID)
	}
}

func TestMeetingService_CheckLiveUserMeetings_TracksNewMeetings(t *testing.T) {
	f := newMeetingFixture()

	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
		UID:            "user-1",
		AccessToken:    "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	f.provider.On("ListLiveMeetings", mock.Anything, "token").Return([]*models.ProviderMeeting{
		{ID: 111, UUID: "uuid-new", Topic: "New Meeting", Type: 1},
		{ID: 222, UUID: "uuid-known", Topic: "Known Meeting", Type: 1},
	}, nil)

	var created []*models.Meeting
	f.meetingRepo.On("CreateMeetingIfAbsent", mock.Anything, mock.AnythingOfType("*models.Meeting")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*models.Meeting))
		}).
		Return(true, nil).Once()
	f.meetingRepo.On("CreateMeetingIfAbsent", mock.Anything, mock.AnythingOfType("*models.Meeting")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*models.Meeting))
		}).
		Return(false, nil).Once()

	before := time.Now().UTC()
	require.NoError(t, f.svc.CheckLiveUserMeetings(context.Background(), "user-1"))
	after := time.Now().UTC()

	require.Len(t, created, 2)
	assert.Equal(t, "uuid-new", created[0].ZoomMeetingUUID)
	assert.Equal(t, int64(111), created[0].ZoomMeetingID)
	assert.Equal(t, "user-1", created[0].UserUID)

	// Discovery stamps the observation time as the tracked start.
	assert.False(t, created[0].StartTime.Before(before))
	assert.False(t, created[0].StartTime.After(after))
}

func TestMeetingService_CheckLiveUserMeetings_ProviderFailure(t *testing.T) {
	f := newMeetingFixture()

	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
		UID:            "user-1",
		AccessToken:    "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	f.provider.On("ListLiveMeetings", mock.Anything, "token").
		Return(nil, domain.NewUnavailableError("zoom is down"))

	err := f.svc.CheckLiveUserMeetings(context.Background(), "user-1")
	require.Error(t, err)
	f.meetingRepo.AssertNotCalled(t, "CreateMeetingIfAbsent", mock.Anything, mock.Anything)
}

func TestMeetingService_SetMeetingMaxLength(t *testing.T) {
	f := newMeetingFixture()

	meeting := &models.Meeting{UID: "meeting-1", UserUID: "user-1"}
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(meeting, nil)
	f.meetingRepo.On("UpdateMeeting", mock.Anything, meeting).Return(nil)

	updated, err := f.svc.SetMeetingMaxLength(context.Background(), "user-1", "meeting-1", intPtr(20))
	require.NoError(t, err)
	require.NotNil(t, updated.MaxMeetingLengthMinutes)
	assert.Equal(t, 20, *updated.MaxMeetingLengthMinutes)
}

func TestMeetingService_SetMeetingMaxLength_RetriesOnConflict(t *testing.T) {
	f := newMeetingFixture()

	// A webhook closes the meeting between the first read and the
	// write. The write conflicts, the re-read picks up the end time,
	// and the override lands on top of it.
	endTime := time.Now().UTC()
	first := &models.Meeting{UID: "meeting-1", UserUID: "user-1", Revision: 1}
	second := &models.Meeting{UID: "meeting-1", UserUID: "user-1", EndTime: &endTime, Revision: 2}

	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(first, nil).Once()
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(second, nil).Once()
	f.meetingRepo.On("UpdateMeeting", mock.Anything, first).
		Return(domain.NewConflictError("revision mismatch")).Once()
	f.meetingRepo.On("UpdateMeeting", mock.Anything, second).Return(nil).Once()

	updated, err := f.svc.SetMeetingMaxLength(context.Background(), "user-1", "meeting-1", intPtr(20))
	require.NoError(t, err)
	require.NotNil(t, updated.MaxMeetingLengthMinutes)
	assert.Equal(t, 20, *updated.MaxMeetingLengthMinutes)
	require.NotNil(t, updated.EndTime)
	f.meetingRepo.AssertExpectations(t)
}

func TestMeetingService_SetMeetingMaxLength_ConflictExhausted(t *testing.T) {
	f := newMeetingFixture()

	meeting := &models.Meeting{UID: "meeting-1", UserUID: "user-1", Revision: 1}
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(meeting, nil)
	f.meetingRepo.On("UpdateMeeting", mock.Anything, meeting).
		Return(domain.NewConflictError("revision mismatch"))

	_, err := f.svc.SetMeetingMaxLength(context.Background(), "user-1", "meeting-1", intPtr(20))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	f.meetingRepo.AssertNumberOfCalls(t, "UpdateMeeting", maxUpdateAttempts)
}

func TestMeetingService_SetMeetingMaxLength_NotOwner(t *testing.T) {
	f := newMeetingFixture()

	meeting := &models.Meeting{UID: "meeting-1", UserUID: "user-1"}
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(meeting, nil)

	_, err := f.svc.SetMeetingMaxLength(context.Background(), "someone-else", "meeting-1", intPtr(20))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	f.meetingRepo.AssertNotCalled(t, "UpdateMeeting", mock.Anything, mock.Anything)
}

func TestMeetingService_SetMeetingMaxLength_RejectsNonPositive(t *testing.T) {
	f := newMeetingFixture()

	_, err := f.svc.SetMeetingMaxLength(context.Background(), "user-1", "meeting-1", intPtr(0))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}
