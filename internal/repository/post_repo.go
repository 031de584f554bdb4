package repository

import (
	"context"

	"github.com/shopvine/shopvine/internal/domain"
	"gorm.io/gorm"
)

// PostRepository handles UGC post data operations. All lookups are scoped to
// a workspace; posts from other workspaces are never visible.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *PostRepository: repository instance bound to db.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post record. A gorm.ErrDuplicatedKey error indicates
// the (workspace, platform, post_url) uniqueness constraint fired.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - post: post record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *PostRepository) Create(ctx context.Context, post *domain.UgcPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates an existing post record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - post: post record with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *PostRepository) Update(ctx context.Context, post *domain.UgcPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// GetByID retrieves a post by ID within a workspace.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - id: post ID.
// Returns:
//   - *domain.UgcPost: post record if found.
//   - error: gorm.ErrRecordNotFound if absent or owned by another workspace.
func (r *PostRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.UgcPost, error) {
	var post domain.UgcPost
	if err := r.db.WithContext(ctx).
		First(&post, "workspace_id = ? AND id = ?", workspaceID, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySourceURL retrieves a post by the duplicate-detection key. This is the
// duplicate pre-check used by the import pipeline; the database uniqueness
// constraint remains the backstop for races between concurrent runs.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - platform: source platform.
//   - postURL: normalized source URL.
// Returns:
//   - *domain.UgcPost: existing post if found.
//   - error: gorm.ErrRecordNotFound if no post matches the key.
func (r *PostRepository) FindBySourceURL(ctx context.Context, workspaceID string, platform domain.Platform, postURL string) (*domain.UgcPost, error) {
	var post domain.UgcPost
	if err := r.db.WithContext(ctx).
		First(&post, "workspace_id = ? AND platform = ? AND post_url = ?", workspaceID, platform, postURL).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves posts for a workspace with optional platform filter and pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - platform: platform to filter by; empty means all.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.UgcPost: matching post records, newest first.
//   - error: non-nil if the query fails.
func (r *PostRepository) List(ctx context.Context, workspaceID string, platform domain.Platform, limit, offset int) ([]domain.UgcPost, error) {
	var posts []domain.UgcPost
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if err := query.
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count counts posts in a workspace.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
// Returns:
//   - int64: number of posts.
//   - error: non-nil if the query fails.
func (r *PostRepository) Count(ctx context.Context, workspaceID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.UgcPost{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
