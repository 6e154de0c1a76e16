// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package main is the Adios API: it serves the Zoom webhook ingress and
// the meetings JSON API, and runs the background jobs that discover
// live meetings and end the ones that ran out of time.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/justadios/adios/internal/cron"
	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/handlers"
	"github.com/justadios/adios/internal/infrastructure/queue"
	zoomapi "github.com/justadios/adios/internal/infrastructure/zoom/api"
	"github.com/justadios/adios/internal/infrastructure/zoom/webhook"
	"github.com/justadios/adios/internal/logging"
	"github.com/justadios/adios/internal/metrics"
	"github.com/justadios/adios/internal/service"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JetStream")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Zoom clients
	zoomClient := zoomapi.NewClient(zoomapi.Config{})
	oauthClient := zoomapi.NewOAuthClient(zoomapi.OAuthConfig{
		ClientID:     env.ZoomConfig.ClientID,
		ClientSecret: env.ZoomConfig.ClientSecret,
		RedirectURL:  env.ZoomConfig.RedirectURL,
	}, zoomClient)
	webhookValidator := webhook.NewZoomWebhookValidator(env.ZoomConfig.WebhookSecret)

	m := metrics.New()

	// Job queue
	jobQueue := queue.NewNatsQueue(js)
	if err := jobQueue.EnsureStream(ctx); err != nil {
		slog.With(logging.ErrKey, err).Error("error creating job stream")
		return
	}

	// Initialize services
	tokenService := service.NewTokenService(repos.User, oauthClient, m)
	meetingService := service.NewMeetingService(repos.User, repos.Meeting, zoomClient, tokenService, jobQueue, m)
	sweepService := service.NewSweepService(repos.User, repos.Meeting, zoomClient, tokenService, jobQueue, m)
	userService := service.NewUserService(repos.User, oauthClient)
	webhookService := service.NewZoomWebhookService(repos.User, repos.Meeting, m)

	service.RegisterJobs(jobQueue, meetingService, sweepService, m)

	gracefulCloseWG.Add(1)
	go func() {
		defer gracefulCloseWG.Done()
		if err := jobQueue.Start(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("job workers stopped")
			done <- os.Interrupt
		}
	}()

	// Periodic triggers enqueue through the same queue as everything
	// else, so the duplicate window coalesces overlapping ticks.
	scheduler := cron.NewScheduler()
	cronJobs := []cron.JobFunc{
		{
			JobName:     domain.JobCheckLiveMeetings,
			JobSchedule: env.DiscoverySchedule,
			RunFunc: func(ctx context.Context) error {
				return jobQueue.Enqueue(ctx, &domain.JobMessage{
					Name:   domain.JobCheckLiveMeetings,
					Key:    "all",
					Origin: domain.JobOriginCron,
				})
			},
		},
		{
			JobName:     domain.JobEndActiveMeetings,
			JobSchedule: env.SweepSchedule,
			RunFunc: func(ctx context.Context) error {
				return jobQueue.Enqueue(ctx, &domain.JobMessage{
					Name:   domain.JobEndActiveMeetings,
					Key:    "all",
					Origin: domain.JobOriginCron,
				})
			},
		},
	}
	for _, job := range cronJobs {
		if err := scheduler.RegisterJob(job); err != nil {
			slog.With(logging.ErrKey, err, "cron_job", job.JobName).Error("error registering cron job")
			return
		}
	}
	if err := scheduler.Start(); err != nil {
		slog.With(logging.ErrKey, err).Error("error starting cron scheduler")
		return
	}

	// Initialize handlers
	router := handlers.NewRouter(
		handlers.NewZoomWebhookHandler(webhookService, webhookValidator, m),
		handlers.NewMeetingHandler(meetingService, sweepService, userService),
		handlers.NewUserHandler(userService),
		m,
		func() bool {
			return natsConn.IsConnected() &&
				meetingService.ServiceReady() &&
				webhookService.ServiceReady()
		},
	)

	httpServer := setupHTTPServer(flags, router, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, scheduler, &gracefulCloseWG, cancel)
}

// gracefulShutdown stops intake first (HTTP and cron), cancels the
// workers, then drains NATS so in-flight acks get flushed.
func gracefulShutdown(
	httpServer *http.Server,
	natsConn *nats.Conn,
	scheduler *cron.Scheduler,
	gracefulCloseWG *sync.WaitGroup,
	cancel context.CancelFunc,
) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error stopping cron scheduler")
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	// Stops the job workers.
	cancel()

	if !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
