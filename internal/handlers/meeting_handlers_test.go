// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/infrastructure/zoom/webhook"
	"github.com/justadios/adios/internal/metrics"
	"github.com/justadios/adios/internal/service"
)

type apiFixture struct {
	router      http.Handler
	userRepo    *domain.MockUserRepository
	meetingRepo *domain.MockMeetingRepository
	provider    *domain.MockMeetingProvider
	oauth       *domain.MockOAuthProvider
}

func newAPIFixture() *apiFixture {
	userRepo := &domain.MockUserRepository{}
	meetingRepo := &domain.MockMeetingRepository{}
	provider := &domain.MockMeetingProvider{}
	queue := &domain.MockJobQueue{}
	oauth := &domain.MockOAuthProvider{}
	m := metrics.New()

	tokenService := service.NewTokenService(userRepo, oauth, m)
	meetingService := service.NewMeetingService(userRepo, meetingRepo, provider, tokenService, queue, m)
	sweepService := service.NewSweepService(userRepo, meetingRepo, provider, tokenService, queue, m)
	userService := service.NewUserService(userRepo, oauth)
	webhookService := service.NewZoomWebhookService(userRepo, meetingRepo, m)

	router := NewRouter(
		NewZoomWebhookHandler(webhookService, webhook.NewZoomWebhookValidator("secret"), m),
		NewMeetingHandler(meetingService, sweepService, userService),
		NewUserHandler(userService),
		m,
		func() bool { return true },
	)

	return &apiFixture{
		router:      router,
		userRepo:    userRepo,
		meetingRepo: meetingRepo,
		provider:    provider,
		oauth:       oauth,
	}
}

func (f *apiFixture) do(method, path, body, userUID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if userUID != "" {
		req.Header.Set(UserUIDHeader, userUID)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestMeetingHandler_ListMeetings_Partitions(t *testing.T) {
	f := newAPIFixture()

	endedStart := time.Now().UTC().Add(-2 * time.Hour)
	endTime := endedStart.Add(50 * time.Minute)
	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{UID: "user-1"}, nil)
	f.meetingRepo.On("ListMeetingsByUser", mock.Anything, "user-1").Return([]*models.Meeting{
		{UID: "open-1", UserUID: "user-1", StartTime: time.Now().UTC().Add(-14*time.Minute - 30*time.Second)},
		{UID: "ended-1", UserUID: "user-1", StartTime: endedStart, EndTime: &endTime},
	}, nil)

	rec := f.do(http.MethodGet, "/meetings", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Open  []meetingResponse `json:"open"`
		Ended []meetingResponse `json:"ended"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Open, 1)
	require.Len(t, resp.Ended, 1)

	assert.Equal(t, "open-1", resp.Open[0].UID)
	require.NotNil(t, resp.Open[0].MinutesRemaining)
	assert.Equal(t, 25, *resp.Open[0].MinutesRemaining)

	assert.Equal(t, "ended-1", resp.Ended[0].UID)
	assert.Nil(t, resp.Ended[0].MinutesRemaining)
	assert.Equal(t, 50, resp.Ended[0].DurationMinutes)
}

func TestMeetingHandler_RequiresIdentity(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(http.MethodGet, "/meetings", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeetingHandler_GetMeeting_NotOwner(t *testing.T) {
	f := newAPIFixture()

	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").
		Return(&models.Meeting{UID: "meeting-1", UserUID: "someone-else"}, nil)

	rec := f.do(http.MethodGet, "/meetings/meeting-1", "", "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeetingHandler_UpdateMeeting(t *testing.T) {
	f := newAPIFixture()

	meeting := &models.Meeting{UID: "meeting-1", UserUID: "user-1", StartTime: time.Now().UTC()}
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(meeting, nil)
	f.meetingRepo.On("UpdateMeeting", mock.Anything, meeting).Return(nil)
	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{UID: "user-1"}, nil)

	rec := f.do(http.MethodPut, "/meetings/meeting-1",
		`{"max_meeting_length_minutes": 90}`, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.MaxMeetingLengthMinutes)
	assert.Equal(t, 90, *resp.MaxMeetingLengthMinutes)
}

func TestMeetingHandler_UpdateMeeting_RejectsZero(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(http.MethodPut, "/meetings/meeting-1",
		`{"max_meeting_length_minutes": 0}`, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeetingHandler_EndMeeting(t *testing.T) {
	f := newAPIFixture()

	meeting := &models.Meeting{
		UID:            "meeting-1",
		UserUID:        "user-1",
		ZoomMeetingID:  123,
		StartTime:      time.Now().UTC().Add(-time.Hour),
	}
	f.meetingRepo.On("GetMeeting", mock.Anything, "meeting-1").Return(meeting, nil)
	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
		UID:            "user-1",
		AccessToken:    "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	f.provider.On("EndMeeting", mock.Anything, "token", int64(123)).Return(nil)

	rec := f.do(http.MethodPost, "/meetings/meeting-1/end", "", "user-1")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// The tracked row is closed by the ended webhook, not here.
	f.meetingRepo.AssertNotCalled(t, "UpdateMeeting", mock.Anything, mock.Anything)
}

func TestMeetingHandler_ListLiveMeetings(t *testing.T) {
	f := newAPIFixture()

	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
		UID:            "user-1",
		AccessToken:    "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	f.provider.On("ListLiveMeetings", mock.Anything, "token").Return([]*models.ProviderMeeting{
		{
			ID:        1,
			UUID:      "uuid-instant",
			Topic:     "Instant",
			Type:      models.ZoomMeetingTypeInstant,
			CreatedAt: time.Now().UTC().Add(-42 * time.Minute).Format("2006-01-02T15:04:05Z"),
		},
		{
			ID:    2,
			UUID:  "uuid-pmr",
			Topic: "Room",
			Type:  models.ZoomMeetingTypePersonalMeetingRoom,
		},
	}, nil)

	rec := f.do(http.MethodGet, "/live_meetings", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []liveMeetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	require.NotNil(t, resp[0].LiveDurationMinutes)
	assert.Equal(t, 42, *resp[0].LiveDurationMinutes)

	// Personal meeting rooms have no computable live duration.
	assert.Nil(t, resp[1].LiveDurationMinutes)
}
