// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"

	"github.com/justadios/adios/internal/logging"
)

// flags are the command line flags for the service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the service.
type environment struct {
	Port              string
	NatsURL           string
	ZoomConfig        zoomConfig
	DiscoverySchedule string
	SweepSchedule     string
}

// zoomConfig holds the Zoom app credentials.
type zoomConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	WebhookSecret string
}

// parseFlags parses command line flags for the service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	discoverySchedule := os.Getenv("DISCOVERY_SCHEDULE")
	if discoverySchedule == "" {
		discoverySchedule = "@every 5m"
	}

	sweepSchedule := os.Getenv("SWEEP_SCHEDULE")
	if sweepSchedule == "" {
		sweepSchedule = "@every 30s"
	}

	return environment{
		Port:              port,
		NatsURL:           natsURL,
		ZoomConfig:        parseZoomConfig(),
		DiscoverySchedule: discoverySchedule,
		SweepSchedule:     sweepSchedule,
	}
}

// parseZoomConfig parses the Zoom app credentials from environment variables
func parseZoomConfig() zoomConfig {
	clientID := os.Getenv("ZOOM_CLIENT_ID")
	if clientID == "" {
		slog.Error("ZOOM_CLIENT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientSecret := os.Getenv("ZOOM_CLIENT_SECRET")
	if clientSecret == "" {
		slog.Error("ZOOM_CLIENT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	redirectURL := os.Getenv("ZOOM_REDIRECT_URL")
	if redirectURL == "" {
		slog.Error("ZOOM_REDIRECT_URL environment variable is required but not set")
		os.Exit(1)
	}

	webhookSecret := os.Getenv("ZOOM_WEBHOOK_SECRET_TOKEN")
	if webhookSecret == "" {
		slog.Error("ZOOM_WEBHOOK_SECRET_TOKEN environment variable is required but not set")
		os.Exit(1)
	}

	return zoomConfig{
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		RedirectURL:   redirectURL,
		WebhookSecret: webhookSecret,
	}
}
