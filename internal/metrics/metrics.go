// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. One instance is shared by every
// component that records events.
type Metrics struct {
	registry *prometheus.Registry

	WebhooksReceived  *prometheus.CounterVec
	WebhooksRejected  prometheus.Counter
	JobsProcessed     *prometheus.CounterVec
	JobsFailed        *prometheus.CounterVec
	MeetingsDiscover  prometheus.Counter
	MeetingsEnded     prometheus.Counter
	TokenRefreshes    prometheus.Counter
	TokenRefreshFails prometheus.Counter
}

// New creates the metrics set on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		WebhooksReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adios_webhooks_received_total",
			Help: "Webhook events accepted, by event type.",
		}, []string{"event"}),
		WebhooksRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "adios_webhooks_rejected_total",
			Help: "Webhook requests rejected before processing.",
		}),
		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adios_jobs_processed_total",
			Help: "Background jobs completed successfully, by job name.",
		}, []string{"job"}),
		JobsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adios_jobs_failed_total",
			Help: "Background jobs that returned an error, by job name.",
		}, []string{"job"}),
		MeetingsDiscover: factory.NewCounter(prometheus.CounterOpts{
			Name: "adios_meetings_discovered_total",
			Help: "Live meetings first seen by periodic discovery.",
		}),
		MeetingsEnded: factory.NewCounter(prometheus.CounterOpts{
			Name: "adios_meetings_ended_total",
			Help: "Meetings forcibly ended by the sweep.",
		}),
		TokenRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "adios_token_refreshes_total",
			Help: "Successful OAuth access token refreshes.",
		}),
		TokenRefreshFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "adios_token_refresh_failures_total",
			Help: "Failed OAuth access token refreshes.",
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
