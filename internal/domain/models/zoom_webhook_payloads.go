// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Zoom webhook event types handled by the service.
const (
	ZoomEventMeetingStarted    = "meeting.started"
	ZoomEventMeetingEnded      = "meeting.ended"
	ZoomEventParticipantJoined = "meeting.participant_joined"
	ZoomEventParticipantLeft   = "meeting.participant_left"
	ZoomEventURLValidation     = "endpoint.url_validation"
)

// ZoomWebhookEvent is the envelope Zoom posts for every webhook event.
// Payload is left raw until the event type has been inspected.
type ZoomWebhookEvent struct {
	Event   string          `json:"event"`
	EventTS int64           `json:"event_ts"`
	Payload json.RawMessage `json:"payload"`
}

// IsKnownEvent reports whether the event type is one the service handles.
func (z *ZoomWebhookEvent) IsKnownEvent() bool {
	switch z.Event {
	case ZoomEventMeetingStarted, ZoomEventMeetingEnded,
		ZoomEventParticipantJoined, ZoomEventParticipantLeft,
		ZoomEventURLValidation:
		return true
	}
	return false
}

// ZoomMeetingStartedPayload represents the payload for meeting.started webhook events
type ZoomMeetingStartedPayload struct {
	Object struct {
		UUID      string    `json:"uuid"`
		ID        string    `json:"id"` // Zoom sends as string in webhook events
		HostID    string    `json:"host_id"`
		Topic     string    `json:"topic"`
		Type      int       `json:"type"`
		StartTime time.Time `json:"start_time"`
		Timezone  string    `json:"timezone"`
	} `json:"object"`
}

// ZoomMeetingEndedPayload represents the payload for meeting.ended webhook events
type ZoomMeetingEndedPayload struct {
	Object struct {
		UUID      string    `json:"uuid"`
		ID        string    `json:"id"` // Zoom sends as string in webhook events
		HostID    string    `json:"host_id"`
		Topic     string    `json:"topic"`
		Type      int       `json:"type"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		Timezone  string    `json:"timezone"`
	} `json:"object"`
}

// ZoomParticipantEventPayload represents the payload for
// meeting.participant_joined and meeting.participant_left webhook events.
// Both carry the same meeting object with a per-participant record.
type ZoomParticipantEventPayload struct {
	Object struct {
		UUID        string `json:"uuid"`
		ID          string `json:"id"` // Zoom sends as string in webhook events
		HostID      string `json:"host_id"`
		Topic       string `json:"topic"`
		Type        int    `json:"type"`
		Participant struct {
			UserID   string `json:"user_id"`
			UserName string `json:"user_name"`
			Email    string `json:"email"`
		} `json:"participant"`
	} `json:"object"`
}

// ZoomURLValidationPayload represents the payload for endpoint.url_validation
// challenge events.
type ZoomURLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// Helper methods to convert the raw webhook payload to typed payloads

// ToMeetingStartedPayload converts the webhook event to a typed meeting started payload
func (z *ZoomWebhookEvent) ToMeetingStartedPayload() (*ZoomMeetingStartedPayload, error) {
	if z.Event != ZoomEventMeetingStarted {
		return nil, fmt.Errorf("invalid event type: expected %s, got %s", ZoomEventMeetingStarted, z.Event)
	}

	var payload ZoomMeetingStartedPayload
	if err := json.Unmarshal(z.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to meeting started payload: %w", err)
	}

	return &payload, nil
}

// ToMeetingEndedPayload converts the webhook event to a typed meeting ended payload
func (z *ZoomWebhookEvent) ToMeetingEndedPayload() (*ZoomMeetingEndedPayload, error) {
	if z.Event != ZoomEventMeetingEnded {
		return nil, fmt.Errorf("invalid event type: expected %s, got %s", ZoomEventMeetingEnded, z.Event)
	}

	var payload ZoomMeetingEndedPayload
	if err := json.Unmarshal(z.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to meeting ended payload: %w", err)
	}

	return &payload, nil
}

// ToParticipantEventPayload converts the webhook event to a typed participant event payload
func (z *ZoomWebhookEvent) ToParticipantEventPayload() (*ZoomParticipantEventPayload, error) {
	if z.Event != ZoomEventParticipantJoined && z.Event != ZoomEventParticipantLeft {
		return nil, fmt.Errorf("invalid event type: expected a participant event, got %s", z.Event)
	}

	var payload ZoomParticipantEventPayload
	if err := json.Unmarshal(z.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to participant event payload: %w", err)
	}

	return &payload, nil
}

// ToURLValidationPayload converts the webhook event to a typed URL validation payload
func (z *ZoomWebhookEvent) ToURLValidationPayload() (*ZoomURLValidationPayload, error) {
	if z.Event != ZoomEventURLValidation {
		return nil, fmt.Errorf("invalid event type: expected %s, got %s", ZoomEventURLValidation, z.Event)
	}

	var payload ZoomURLValidationPayload
	if err := json.Unmarshal(z.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to url validation payload: %w", err)
	}

	return &payload, nil
}
