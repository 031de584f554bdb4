package repository

import (
	"context"
	"time"

	"github.com/shopvine/shopvine/internal/domain"
	"gorm.io/gorm"
)

// RightsRequestRepository handles rights request data operations.
type RightsRequestRepository struct {
	db *gorm.DB
}

// NewRightsRequestRepository creates a new RightsRequestRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *RightsRequestRepository: repository instance bound to db.
func NewRightsRequestRepository(db *gorm.DB) *RightsRequestRepository {
	return &RightsRequestRepository{db: db}
}

// Create inserts a new rights request record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: rights request to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *RightsRequestRepository) Create(ctx context.Context, req *domain.RightsRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID retrieves a rights request by ID within a workspace.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - id: rights request ID.
// Returns:
//   - *domain.RightsRequest: record if found.
//   - error: gorm.ErrRecordNotFound if absent or owned by another workspace.
func (r *RightsRequestRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.RightsRequest, error) {
	var req domain.RightsRequest
	if err := r.db.WithContext(ctx).
		First(&req, "workspace_id = ? AND id = ?", workspaceID, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByPostID retrieves the rights request attached to a post.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - postID: post the request belongs to.
// Returns:
//   - *domain.RightsRequest: record if found.
//   - error: gorm.ErrRecordNotFound if no request exists for the post.
func (r *RightsRequestRepository) GetByPostID(ctx context.Context, workspaceID, postID string) (*domain.RightsRequest, error) {
	var req domain.RightsRequest
	if err := r.db.WithContext(ctx).
		First(&req, "workspace_id = ? AND post_id = ?", workspaceID, postID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByWorkspace retrieves rights requests for a workspace with optional
// status filter and pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - status: status to filter by; empty means all.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.RightsRequest: matching records, newest first.
//   - error: non-nil if the query fails.
func (r *RightsRequestRepository) ListByWorkspace(ctx context.Context, workspaceID string, status domain.RightsStatus, limit, offset int) ([]domain.RightsRequest, error) {
	var reqs []domain.RightsRequest
	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateStatus transitions a rights request to a new status and stamps the
// response time for terminal statuses.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - id: rights request ID.
//   - status: new status.
// Returns:
//   - *domain.RightsRequest: updated record.
//   - error: gorm.ErrRecordNotFound if absent, non-nil on update failure.
func (r *RightsRequestRepository) UpdateStatus(ctx context.Context, workspaceID, id string, status domain.RightsStatus) (*domain.RightsRequest, error) {
	req, err := r.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = status
	switch status {
	case domain.RightsStatusRequested:
		req.RequestedAt = &now
	case domain.RightsStatusApproved, domain.RightsStatusDenied:
		req.RespondedAt = &now
	}

	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}
