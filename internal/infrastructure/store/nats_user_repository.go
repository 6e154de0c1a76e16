// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
)

// NatsUserRepository is the NATS KV store repository for users.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
	keyBuilder *KeyBuilder
}

// NewNatsUserRepository creates a new NATS KV store repository for users.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// GetUser retrieves a user by its UID.
func (s *NatsUserRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.Get(ctx, s.keyBuilder.EntityKey(KeyPrefixUser, userUID))
}

// GetUserByZoomUserID retrieves a user via the Zoom user ID index.
func (s *NatsUserRepository) GetUserByZoomUserID(ctx context.Context, zoomUserID string) (*models.User, error) {
	indexKey := s.keyBuilder.UniqueIndexKey(KeyPrefixIndexZoomID, zoomUserID)
	userUID, err := s.GetIndexValue(ctx, indexKey)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, domain.NewNotFoundError("user with zoom user id '"+zoomUserID+"' not found", err)
		}
		return nil, err
	}
	return s.GetUser(ctx, userUID)
}

// SaveUser writes the user row, assigning a UID and timestamps on first save.
func (s *NatsUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.UID == "" {
		user.UID = uuid.New().String()
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if err := s.Put(ctx, s.keyBuilder.EntityKey(KeyPrefixUser, user.UID), user); err != nil {
		return err
	}

	// The index write is last-writer-wins on purpose: re-authorizing the
	// same Zoom account must repoint the index at the surviving row.
	indexKey := s.keyBuilder.UniqueIndexKey(KeyPrefixIndexZoomID, user.ZoomUserID)
	if _, err := s.kvStore.Put(ctx, indexKey, []byte(user.UID)); err != nil {
		return domain.NewInternalError("failed to index user by zoom user id", err)
	}

	return nil
}

// ListAllUsers lists every stored user.
func (s *NatsUserRepository) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.ListEntities(ctx, KeyPrefixUser+"/")
}
