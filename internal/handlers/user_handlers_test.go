// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
)

func TestUserHandler_Login_RedirectsWithState(t *testing.T) {
	f := newAPIFixture()

	f.oauth.On("AuthCodeURL", mock.AnythingOfType("string")).
		Return("https://zoom.us/oauth/authorize?state=xyz")

	rec := f.do(http.MethodGet, "/login", "", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://zoom.us/oauth/authorize?state=xyz", rec.Header().Get("Location"))

	var stateCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == oauthStateCookie {
			stateCookie = cookie
		}
	}
	require.NotNil(t, stateCookie)
	assert.NotEmpty(t, stateCookie.Value)
}

func TestUserHandler_OAuthCallback(t *testing.T) {
	f := newAPIFixture()

	f.oauth.On("ExchangeCode", mock.Anything, "auth-code").Return(&domain.OAuthToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil)
	f.oauth.On("CurrentUser", mock.Anything, "access").Return(&domain.OAuthUserInfo{
		ID:          "zoom-1",
		DisplayName: "Ada Lovelace",
		Email:       "ada@example.com",
	}, nil)
	f.userRepo.On("GetUserByZoomUserID", mock.Anything, "zoom-1").
		Return(nil, domain.NewNotFoundError("user not found"))
	f.userRepo.On("SaveUser", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).UID = "user-1"
		}).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/oauth/zoom?code=auth-code&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "xyz"})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.UID)
	assert.Equal(t, "zoom-1", resp.ZoomUserID)
	assert.Equal(t, "Ada Lovelace", resp.DisplayName)
}

func TestUserHandler_OAuthCallback_StateMismatch(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/oauth/zoom?code=auth-code&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "xyz"})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.oauth.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
}

func TestUserHandler_GetSettings(t *testing.T) {
	f := newAPIFixture()

	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(&models.User{
		UID:                         "user-1",
		DisplayName:                 "Ada Lovelace",
		DefaultMeetingLengthMinutes: intPtrHandlers(60),
	}, nil)

	rec := f.do(http.MethodGet, "/settings", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.DefaultMeetingLengthMinutes)
	assert.Equal(t, 60, *resp.DefaultMeetingLengthMinutes)
}

func TestUserHandler_UpdateSettings(t *testing.T) {
	f := newAPIFixture()

	user := &models.User{UID: "user-1"}
	f.userRepo.On("GetUser", mock.Anything, "user-1").Return(user, nil)
	f.userRepo.On("SaveUser", mock.Anything, user).Return(nil)

	rec := f.do(http.MethodPut, "/settings",
		`{"default_meeting_length_minutes": 45}`, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.DefaultMeetingLengthMinutes)
	assert.Equal(t, 45, *resp.DefaultMeetingLengthMinutes)
}

func TestUserHandler_UpdateSettings_RejectsNegative(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(http.MethodPut, "/settings",
		`{"default_meeting_length_minutes": -5}`, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func intPtrHandlers(v int) *int {
	return &v
}
