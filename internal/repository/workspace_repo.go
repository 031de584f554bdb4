package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/domain"
	"gorm.io/gorm"
)

// WorkspaceRepository handles workspace and API key data operations.
type WorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *WorkspaceRepository: repository instance bound to db.
func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts a new workspace record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - ws: workspace to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

// GetByID retrieves a workspace by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: workspace ID.
// Returns:
//   - *domain.Workspace: workspace if found.
//   - error: gorm.ErrRecordNotFound if absent.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// CreateKey inserts a new API key record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: API key to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *WorkspaceRepository) CreateKey(ctx context.Context, key *domain.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

// GetByAPIKey resolves an API key string to its workspace and key record, and
// stamps the key's last-used time as a side effect.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: raw API key presented by the caller.
// Returns:
//   - *domain.Workspace: workspace owning the key.
//   - *domain.APIKey: resolved key record with its role.
//   - error: gorm.ErrRecordNotFound if the key is unknown.
func (r *WorkspaceRepository) GetByAPIKey(ctx context.Context, key string) (*domain.Workspace, *domain.APIKey, error) {
	var apiKey domain.APIKey
	if err := r.db.WithContext(ctx).First(&apiKey, "key = ?", key).Error; err != nil {
		return nil, nil, err
	}

	var ws domain.Workspace
	if err := r.db.WithContext(ctx).First(&ws, "id = ?", apiKey.WorkspaceID).Error; err != nil {
		return nil, nil, err
	}

	now := time.Now()
	r.db.WithContext(ctx).Model(&domain.APIKey{}).
		Where("id = ?", apiKey.ID).
		Update("last_used_at", now)

	return &ws, &apiKey, nil
}

// EnsureBootstrap creates a workspace with an owner API key if the key does
// not already exist. Used to seed fresh deployments from configuration.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: workspace display name.
//   - slug: workspace slug.
//   - key: raw API key to register.
// Returns:
//   - *domain.Workspace: existing or newly created workspace.
//   - error: non-nil if creation fails.
func (r *WorkspaceRepository) EnsureBootstrap(ctx context.Context, name, slug, key string) (*domain.Workspace, error) {
	ws, _, err := r.GetByAPIKey(ctx, key)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ws = &domain.Workspace{
		ID:   uuid.New().String(),
		Name: name,
		Slug: slug,
	}
	if err := r.Create(ctx, ws); err != nil {
		return nil, err
	}

	apiKey := &domain.APIKey{
		ID:          uuid.New().String(),
		WorkspaceID: ws.ID,
		Key:         key,
		Role:        domain.RoleOwner,
		Label:       "bootstrap",
	}
	if err := r.CreateKey(ctx, apiKey); err != nil {
		return nil, err
	}
	return ws, nil
}
