// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package store contains the NATS JetStream KV backed repositories.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/logging"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/justadios/adios/internal/infrastructure/store"

// INatsKeyValue is the subset of the NATS KV interface the repositories
// need. It matches jetstream.KeyValue and allows for mocking in tests.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Create(context.Context, string, []byte, ...jetstream.KVCreateOpt) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// NatsBaseRepository provides common NATS KV operations shared by the
// concrete repositories.
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string // Used in error messages (e.g., "user", "meeting")
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

func (r *NatsBaseRepository[T]) startSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "nats.kv."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", operation),
			attribute.String("db.nats.key", key),
			attribute.String("db.nats.entity", r.entityName),
		),
	)
}

func (r *NatsBaseRepository[T]) notReadyError(span trace.Span) error {
	err := domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// GetRaw retrieves a raw entry from the NATS KV store
func (r *NatsBaseRepository[T]) GetRaw(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	ctx, span := r.startSpan(ctx, "get", key)
	defer span.End()

	if !r.IsReady() {
		return nil, r.notReadyError(span)
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			err = domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "not found")
			return nil, err
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		err = domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// Get retrieves and unmarshals an entity from the NATS KV store
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	entry, err := r.GetRaw(ctx, key)
	if err != nil {
		return nil, err
	}

	entity, err := r.Unmarshal(ctx, entry)
	if err != nil {
		return nil, domain.NewInternalError(
			fmt.Sprintf("failed to unmarshal %s data", r.entityName), err)
	}

	return entity, nil
}

// Unmarshal unmarshals a NATS KV entry into the entity type
func (r *NatsBaseRepository[T]) Unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*T, error) {
	var entity T
	err := json.Unmarshal(entry.Value(), &entity)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error unmarshaling %s", r.entityName),
			logging.ErrKey, err)
		return nil, err
	}

	return &entity, nil
}

// Marshal marshals an entity to JSON bytes
func (r *NatsBaseRepository[T]) Marshal(ctx context.Context, entity *T) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error marshaling %s", r.entityName),
			logging.ErrKey, err)
		return nil, err
	}

	return data, nil
}

// Put writes an entity to the store, creating or replacing it
func (r *NatsBaseRepository[T]) Put(ctx context.Context, key string, entity *T) error {
	ctx, span := r.startSpan(ctx, "put", key)
	defer span.End()

	if !r.IsReady() {
		return r.notReadyError(span)
	}

	data, err := r.Marshal(ctx, entity)
	if err != nil {
		err = domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = r.kvStore.Put(ctx, key, data)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error writing %s to NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		err = domain.NewInternalError(fmt.Sprintf("failed to write %s to store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update updates an existing entity with optimistic concurrency control
func (r *NatsBaseRepository[T]) Update(ctx context.Context, key string, entity *T, revision uint64) error {
	ctx, span := r.startSpan(ctx, "update", key)
	defer span.End()

	if !r.IsReady() {
		return r.notReadyError(span)
	}

	data, err := r.Marshal(ctx, entity)
	if err != nil {
		err = domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = r.kvStore.Update(ctx, key, data, revision)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			err = domain.NewNotFoundError(fmt.Sprintf("%s not found", r.entityName), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "not found")
			return err
		}
		if strings.Contains(err.Error(), "wrong last sequence") {
			err = domain.NewConflictError(fmt.Sprintf("%s has been modified", r.entityName), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "conflict")
			return err
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error updating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key, "revision", revision)
		err = domain.NewInternalError(fmt.Sprintf("failed to update %s in store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListKeys lists all keys in the store
func (r *NatsBaseRepository[T]) ListKeys(ctx context.Context) ([]string, error) {
	ctx, span := r.startSpan(ctx, "list_keys", "")
	defer span.End()

	if !r.IsReady() {
		return nil, r.notReadyError(span)
	}

	lister, err := r.kvStore.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error listing %s keys from NATS KV", r.entityName),
			logging.ErrKey, err)
		err = domain.NewInternalError(
			fmt.Sprintf("failed to list %s keys from store", r.entityName), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	span.SetAttributes(attribute.Int("db.nats.keys_count", len(keys)))
	span.SetStatus(codes.Ok, "")
	return keys, nil
}

// ListEntities lists all entities whose keys start with the given prefix
func (r *NatsBaseRepository[T]) ListEntities(ctx context.Context, keyPrefix string) ([]*T, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	var entities []*T
	for _, key := range keys {
		if keyPrefix != "" && !strings.HasPrefix(key, keyPrefix) {
			continue
		}

		entity, err := r.Get(ctx, key)
		if err != nil {
			// Log error but continue with other entities
			slog.WarnContext(ctx, fmt.Sprintf("failed to get %s, skipping", r.entityName),
				"key", key, logging.ErrKey, err)
			continue
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

// CreateUniqueIndex writes an index entry whose value is the entity UID.
// The write is create-only, so a concurrent or earlier writer wins and
// the caller is told the index already existed.
func (r *NatsBaseRepository[T]) CreateUniqueIndex(ctx context.Context, indexKey, entityUID string) (bool, error) {
	ctx, span := r.startSpan(ctx, "create", indexKey)
	defer span.End()

	if !r.IsReady() {
		return false, r.notReadyError(span)
	}

	_, err := r.kvStore.Create(ctx, indexKey, []byte(entityUID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			span.SetStatus(codes.Ok, "exists")
			return false, nil
		}
		slog.ErrorContext(ctx, "error creating unique index",
			logging.ErrKey, err, "index_key", indexKey)
		err = domain.NewInternalError("failed to create index", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}

// GetIndexValue reads the entity UID stored under a unique index key
func (r *NatsBaseRepository[T]) GetIndexValue(ctx context.Context, indexKey string) (string, error) {
	entry, err := r.GetRaw(ctx, indexKey)
	if err != nil {
		return "", err
	}
	return string(entry.Value()), nil
}

// PutIndex writes a membership index entry with an empty value
func (r *NatsBaseRepository[T]) PutIndex(ctx context.Context, indexKey string) error {
	if !r.IsReady() {
		return domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	_, err := r.kvStore.Put(ctx, indexKey, []byte{})
	if err != nil {
		slog.ErrorContext(ctx, "error creating index",
			logging.ErrKey, err, "index_key", indexKey)
		return domain.NewInternalError("failed to create index", err)
	}

	return nil
}
