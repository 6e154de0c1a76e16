// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/justadios/adios/internal/infrastructure/store"
	"github.com/justadios/adios/internal/logging"
)

// repositories are the NATS KV backed stores used by the services.
type repositories struct {
	User    *store.NatsUserRepository
	Meeting *store.NatsMeetingRepository
}

// setupNATS connects to NATS. The closed handler signals main so a
// dropped connection terminates the process instead of leaving it
// serving requests it cannot store.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(15*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("connected to NATS")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject).Error("async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).Error("async NATS error")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.Info("NATS connection closed")
			gracefulCloseWG.Done()
			done <- os.Interrupt
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// getKeyValueStores creates the KV buckets and wraps them in the
// repositories.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream) (*repositories, error) {
	usersKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameUsers,
	})
	if err != nil {
		return nil, err
	}

	meetingsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameMeetings,
	})
	if err != nil {
		return nil, err
	}

	return &repositories{
		User:    store.NewNatsUserRepository(usersKV),
		Meeting: store.NewNatsMeetingRepository(meetingsKV),
	}, nil
}
