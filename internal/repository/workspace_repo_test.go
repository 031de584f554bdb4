package repository

import (
	"context"
	"testing"

	"github.com/shopvine/shopvine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureBootstrapIdempotent(t *testing.T) {
	repo := NewWorkspaceRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.EnsureBootstrap(ctx, "Acme", "acme", "sk-test-key")
	require.NoError(t, err)

	second, err := repo.EnsureBootstrap(ctx, "Acme", "acme", "sk-test-key")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated bootstrap reuses the workspace")
}

func TestGetByAPIKey(t *testing.T) {
	repo := NewWorkspaceRepository(newTestDB(t))
	ctx := context.Background()

	ws, err := repo.EnsureBootstrap(ctx, "Acme", "acme", "sk-test-key")
	require.NoError(t, err)

	resolved, key, err := repo.GetByAPIKey(ctx, "sk-test-key")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, resolved.ID)
	assert.Equal(t, domain.RoleOwner, key.Role)

	_, _, err = repo.GetByAPIKey(ctx, "sk-wrong-key")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
