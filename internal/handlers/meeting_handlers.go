// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/service"
)

// MeetingHandler serves the JSON API over tracked meetings.
type MeetingHandler struct {
	meetingService *service.MeetingService
	sweepService   *service.SweepService
	userService    *service.UserService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(
	meetingService *service.MeetingService,
	sweepService *service.SweepService,
	userService *service.UserService,
) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
		sweepService:   sweepService,
		userService:    userService,
	}
}

// meetingResponse is the JSON shape of a tracked meeting. Duration and
// minutes remaining are computed at response time for open meetings.
type meetingResponse struct {
	UID                     string     `json:"uid"`
	ZoomMeetingID           int64      `json:"zoom_meeting_id"`
	ZoomMeetingUUID         string     `json:"zoom_meeting_uuid"`
	Topic                   string     `json:"topic"`
	StartTime               time.Time  `json:"start_time"`
	EndTime                 *time.Time `json:"end_time,omitempty"`
	MaxMeetingLengthMinutes *int       `json:"max_meeting_length_minutes,omitempty"`
	DurationMinutes         int        `json:"duration_minutes"`
	MinutesRemaining        *int       `json:"minutes_remaining,omitempty"`
}

func toMeetingResponse(meeting *models.Meeting, owner *models.User, now time.Time) meetingResponse {
	resp := meetingResponse{
		UID:                     meeting.UID,
		ZoomMeetingID:           meeting.ZoomMeetingID,
		ZoomMeetingUUID:         meeting.ZoomMeetingUUID,
		Topic:                   meeting.Topic,
		StartTime:               meeting.StartTime,
		EndTime:                 meeting.EndTime,
		MaxMeetingLengthMinutes: meeting.MaxMeetingLengthMinutes,
		DurationMinutes:         int(meeting.Duration(now).Minutes()),
	}
	if !meeting.IsEnded() {
		remaining := meeting.MinutesRemaining(owner, now)
		resp.MinutesRemaining = &remaining
	}
	return resp
}

// meetingListResponse partitions the caller's meetings.
type meetingListResponse struct {
	Open  []meetingResponse `json:"open"`
	Ended []meetingResponse `json:"ended"`
}

// ListMeetings returns the caller's meetings, open and ended.
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userUID := UserUID(ctx)

	owner, err := h.userService.GetUser(ctx, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	meetings, err := h.meetingService.ListMeetingsForUser(ctx, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	resp := meetingListResponse{
		Open:  []meetingResponse{},
		Ended: []meetingResponse{},
	}
	for _, meeting := range meetings {
		if meeting.IsEnded() {
			resp.Ended = append(resp.Ended, toMeetingResponse(meeting, owner, now))
		} else {
			resp.Open = append(resp.Open, toMeetingResponse(meeting, owner, now))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetMeeting returns one of the caller's meetings by UID.
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userUID := UserUID(ctx)

	meeting, err := h.getOwnedMeeting(r, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	owner, err := h.userService.GetUser(ctx, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(meeting, owner, time.Now().UTC()))
}

// updateMeetingRequest carries the per-meeting length override. A null
// value clears the override.
type updateMeetingRequest struct {
	MaxMeetingLengthMinutes *int `json:"max_meeting_length_minutes"`
}

// UpdateMeeting sets or clears the caller's per-meeting length override.
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userUID := UserUID(ctx)

	var req updateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, domain.NewValidationError("invalid request body", err))
		return
	}

	meeting, err := h.meetingService.SetMeetingMaxLength(ctx, userUID, chi.URLParam(r, "uid"), req.MaxMeetingLengthMinutes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	owner, err := h.userService.GetUser(ctx, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMeetingResponse(meeting, owner, time.Now().UTC()))
}

// EndMeeting ends one of the caller's meetings on Zoom immediately. The
// tracked row closes when the meeting.ended webhook arrives.
func (h *MeetingHandler) EndMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userUID := UserUID(ctx)

	meeting, err := h.getOwnedMeeting(r, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.sweepService.ForceEndMeeting(ctx, meeting.UID); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// liveMeetingResponse is a live meeting as reported by Zoom. The live
// duration is absent when Zoom does not report a usable start instant
// for the meeting type.
type liveMeetingResponse struct {
	ID                  int64  `json:"id"`
	UUID                string `json:"uuid"`
	Topic               string `json:"topic"`
	Type                int    `json:"type"`
	JoinURL             string `json:"join_url,omitempty"`
	LiveDurationMinutes *int   `json:"live_duration_minutes,omitempty"`
}

// ListLiveMeetings queries Zoom for the caller's currently live meetings.
func (h *MeetingHandler) ListLiveMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	liveMeetings, err := h.meetingService.ListLiveMeetingsForUser(ctx, UserUID(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	resp := make([]liveMeetingResponse, 0, len(liveMeetings))
	for _, live := range liveMeetings {
		item := liveMeetingResponse{
			ID:      live.ID,
			UUID:    live.UUID,
			Topic:   live.Topic,
			Type:    live.Type,
			JoinURL: live.JoinURL,
		}
		if duration, err := live.LiveDuration(now); err == nil {
			minutes := int(duration.Minutes())
			item.LiveDurationMinutes = &minutes
		}
		resp = append(resp, item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// getOwnedMeeting loads the meeting from the URL and enforces ownership.
// A meeting owned by someone else reads as not found.
func (h *MeetingHandler) getOwnedMeeting(r *http.Request, userUID string) (*models.Meeting, error) {
	meetingUID := chi.URLParam(r, "uid")
	if meetingUID == "" {
		return nil, domain.NewValidationError("missing meeting uid")
	}

	meeting, err := h.meetingService.GetMeeting(r.Context(), meetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.UserUID != userUID {
		return nil, domain.NewNotFoundError("meeting not found")
	}
	return meeting, nil
}
