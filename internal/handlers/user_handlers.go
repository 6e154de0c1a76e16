// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/service"
)

// oauthStateCookie holds the anti-forgery state between the login
// redirect and the provider callback.
const oauthStateCookie = "oauth_state"

// UserHandler serves the OAuth login flow and user settings.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Login redirects the browser to Zoom's authorization page.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.userService.OAuthLoginURL(state), http.StatusFound)
}

// userResponse is the JSON shape of a user account.
type userResponse struct {
	UID                         string `json:"uid"`
	ZoomUserID                  string `json:"zoom_user_id"`
	DisplayName                 string `json:"display_name"`
	Email                       string `json:"email"`
	DefaultMeetingLengthMinutes *int   `json:"default_meeting_length_minutes,omitempty"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		UID:                         user.UID,
		ZoomUserID:                  user.ZoomUserID,
		DisplayName:                 user.DisplayName,
		Email:                       user.Email,
		DefaultMeetingLengthMinutes: user.DefaultMeetingLengthMinutes,
	}
}

// OAuthCallback completes the authorization-code exchange and upserts
// the user account.
func (h *UserHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "oauth state mismatch"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
		return
	}

	user, err := h.userService.CompleteOAuthLogin(ctx, code)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slog.InfoContext(ctx, "completed oauth login",
		"user_uid", user.UID,
		"zoom_user_id", user.ZoomUserID,
	)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// GetSettings returns the caller's account and default meeting length.
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.userService.GetUser(ctx, UserUID(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// updateSettingsRequest carries the user default meeting length. A null
// value clears the default.
type updateSettingsRequest struct {
	DefaultMeetingLengthMinutes *int `json:"default_meeting_length_minutes"`
}

// UpdateSettings sets or clears the caller's default meeting length.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, domain.NewValidationError("invalid request body", err))
		return
	}

	user, err := h.userService.SetDefaultMeetingLength(ctx, UserUID(ctx), req.DefaultMeetingLengthMinutes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slog.DebugContext(ctx, "updated user settings")
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
