// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/domain/models"
)

func TestNatsUserRepository_SaveAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(newMockNatsKeyValue())

	user := &models.User{
		ZoomUserID:     "zoom-abc",
		DisplayName:    "Ada Lovelace",
		AccessToken:    "at-1",
		RefreshToken:   "rt-1",
		TokenExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.SaveUser(ctx, user))
	assert.NotEmpty(t, user.UID)
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := repo.GetUser(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "zoom-abc", stored.ZoomUserID)
	assert.Equal(t, "at-1", stored.AccessToken)
}

func TestNatsUserRepository_GetUserByZoomUserID(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(newMockNatsKeyValue())

	user := &models.User{ZoomUserID: "zoom-abc"}
	require.NoError(t, repo.SaveUser(ctx, user))

	stored, err := repo.GetUserByZoomUserID(ctx, "zoom-abc")
	require.NoError(t, err)
	assert.Equal(t, user.UID, stored.UID)

	_, err = repo.GetUserByZoomUserID(ctx, "unknown")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsUserRepository_SaveUser_PreservesUID(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(newMockNatsKeyValue())

	user := &models.User{ZoomUserID: "zoom-abc"}
	require.NoError(t, repo.SaveUser(ctx, user))
	originalUID := user.UID
	originalCreatedAt := user.CreatedAt

	user.AccessToken = "rotated"
	require.NoError(t, repo.SaveUser(ctx, user))
	assert.Equal(t, originalUID, user.UID)
	assert.Equal(t, originalCreatedAt, user.CreatedAt)

	stored, err := repo.GetUser(ctx, originalUID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", stored.AccessToken)
}

func TestNatsUserRepository_ListAllUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(newMockNatsKeyValue())

	require.NoError(t, repo.SaveUser(ctx, &models.User{ZoomUserID: "zoom-1"}))
	require.NoError(t, repo.SaveUser(ctx, &models.User{ZoomUserID: "zoom-2"}))

	users, err := repo.ListAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
