// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
	"github.com/justadios/adios/internal/infrastructure/zoom/webhook"
	"github.com/justadios/adios/internal/logging"
	"github.com/justadios/adios/internal/metrics"
	"github.com/justadios/adios/internal/service"
)

// Zoom webhook signature headers.
const (
	ZoomSignatureHeader = "x-zm-signature"
	ZoomTimestampHeader = "x-zm-request-timestamp"
)

// maxWebhookBodyBytes bounds the webhook body read. Zoom events are small.
const maxWebhookBodyBytes = 1 << 20

// ZoomWebhookHandler handles Zoom webhook events.
type ZoomWebhookHandler struct {
	webhookService   *service.ZoomWebhookService
	webhookValidator *webhook.ZoomWebhookValidator
	metrics          *metrics.Metrics
}

// NewZoomWebhookHandler creates a new ZoomWebhookHandler.
func NewZoomWebhookHandler(
	webhookService *service.ZoomWebhookService,
	webhookValidator *webhook.ZoomWebhookValidator,
	m *metrics.Metrics,
) *ZoomWebhookHandler {
	return &ZoomWebhookHandler{
		webhookService:   webhookService,
		webhookValidator: webhookValidator,
		metrics:          m,
	}
}

// HandleWebhook is the ingress for every Zoom webhook event. The
// signature is validated before the body is parsed; an unverifiable
// request never reaches the event handlers.
func (h *ZoomWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		h.metrics.WebhooksRejected.Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	signature := r.Header.Get(ZoomSignatureHeader)
	timestamp := r.Header.Get(ZoomTimestampHeader)
	if err := h.webhookValidator.ValidateSignature(body, signature, timestamp); err != nil {
		h.metrics.WebhooksRejected.Inc()
		slog.WarnContext(ctx, "rejected webhook with invalid signature", logging.ErrKey, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid webhook signature"})
		return
	}

	var event models.ZoomWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.metrics.WebhooksRejected.Inc()
		slog.WarnContext(ctx, "rejected malformed webhook body", logging.ErrKey, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed webhook body"})
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", event.Event))

	if !event.IsKnownEvent() {
		h.metrics.WebhooksRejected.Inc()
		slog.WarnContext(ctx, "rejected webhook with unknown event type")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown event type"})
		return
	}

	h.metrics.WebhooksReceived.WithLabelValues(event.Event).Inc()

	if event.Event == models.ZoomEventURLValidation {
		h.handleURLValidation(w, r, &event)
		return
	}

	switch event.Event {
	case models.ZoomEventMeetingStarted:
		err = h.webhookService.HandleMeetingStarted(ctx, &event)
	case models.ZoomEventMeetingEnded:
		err = h.webhookService.HandleMeetingEnded(ctx, &event)
	case models.ZoomEventParticipantJoined, models.ZoomEventParticipantLeft:
		err = h.webhookService.HandleParticipantEvent(ctx, &event)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slog.DebugContext(ctx, "processed webhook event")
	w.WriteHeader(http.StatusOK)
}

// urlValidationResponse is the challenge response Zoom expects for
// endpoint.url_validation events.
type urlValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

func (h *ZoomWebhookHandler) handleURLValidation(w http.ResponseWriter, r *http.Request, event *models.ZoomWebhookEvent) {
	ctx := r.Context()

	payload, err := event.ToURLValidationPayload()
	if err != nil {
		writeError(ctx, w, domain.NewValidationError("invalid url validation payload", err))
		return
	}

	slog.InfoContext(ctx, "answering webhook url validation challenge")
	writeJSON(w, http.StatusOK, urlValidationResponse{
		PlainToken:     payload.PlainToken,
		EncryptedToken: h.webhookValidator.SignChallenge(payload.PlainToken),
	})
}
