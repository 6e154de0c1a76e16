// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justadios/adios/internal/metrics"
)

// NewRouter constructs the chi mux with all routes wired.
func NewRouter(
	webhookHandler *ZoomWebhookHandler,
	meetingHandler *MeetingHandler,
	userHandler *UserHandler,
	m *metrics.Metrics,
	readyz func() bool,
) http.Handler {
	r := chi.NewRouter()

	// Public, no identity required.
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if readyz == nil || !readyz() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", m.Handler())

	// Webhooks carry their own HMAC auth.
	r.Post("/webhooks/zoom", webhookHandler.HandleWebhook)

	// OAuth login flow.
	r.Get("/login", userHandler.Login)
	r.Get("/oauth/zoom", userHandler.OAuthCallback)

	// JSON API, caller identity required.
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/settings", userHandler.GetSettings)
		r.Put("/settings", userHandler.UpdateSettings)
		r.Get("/meetings", meetingHandler.ListMeetings)
		r.Get("/meetings/{uid}", meetingHandler.GetMeeting)
		r.Put("/meetings/{uid}", meetingHandler.UpdateMeeting)
		r.Post("/meetings/{uid}/end", meetingHandler.EndMeeting)
		r.Get("/live_meetings", meetingHandler.ListLiveMeetings)
	})

	return r
}
