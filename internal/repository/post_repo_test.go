package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPost(workspaceID, url string) *domain.UgcPost {
	return &domain.UgcPost{
		ID:            uuid.New().String(),
		WorkspaceID:   workspaceID,
		Platform:      domain.PlatformTikTok,
		PostURL:       url,
		CreatorHandle: "jane",
		ImportSource:  domain.ImportSourceManual,
	}
}

func TestPostCreateDuplicateKeyTranslated(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New().String()
	url := "https://www.tiktok.com/@jane/video/1"

	require.NoError(t, repo.Create(ctx, newPost(workspaceID, url)))

	err := repo.Create(ctx, newPost(workspaceID, url))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey,
		"constraint violations must surface as the translated sentinel")
}

func TestPostUniqueKeyScopedPerWorkspace(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()
	url := "https://www.tiktok.com/@jane/video/1"

	require.NoError(t, repo.Create(ctx, newPost(uuid.New().String(), url)))
	require.NoError(t, repo.Create(ctx, newPost(uuid.New().String(), url)))
}

func TestFindBySourceURL(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New().String()
	url := "https://www.tiktok.com/@jane/video/1"

	post := newPost(workspaceID, url)
	require.NoError(t, repo.Create(ctx, post))

	found, err := repo.FindBySourceURL(ctx, workspaceID, domain.PlatformTikTok, url)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)

	// same URL, different platform, is a different post
	_, err = repo.FindBySourceURL(ctx, workspaceID, domain.PlatformInstagram, url)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindBySourceURL(ctx, uuid.New().String(), domain.PlatformTikTok, url)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostListPlatformFilter(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New().String()

	tiktok := newPost(workspaceID, "https://tiktok.com/v/1")
	insta := newPost(workspaceID, "https://instagram.com/p/1")
	insta.Platform = domain.PlatformInstagram
	require.NoError(t, repo.Create(ctx, tiktok))
	require.NoError(t, repo.Create(ctx, insta))

	all, err := repo.List(ctx, workspaceID, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := repo.List(ctx, workspaceID, domain.PlatformInstagram, 10, 0)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, insta.ID, only[0].ID)
}
