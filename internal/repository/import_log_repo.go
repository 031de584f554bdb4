package repository

import (
	"context"
	"time"

	"github.com/shopvine/shopvine/internal/domain"
	"gorm.io/gorm"
)

// ImportLogRepository is the durable, append-only store for import runs and
// their per-step log entries. Entries are never mutated or deleted once
// written, and ListEntries returns them in the exact order they were
// appended.
type ImportLogRepository struct {
	db *gorm.DB
}

// NewImportLogRepository creates a new ImportLogRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ImportLogRepository: repository instance bound to db.
func NewImportLogRepository(db *gorm.DB) *ImportLogRepository {
	return &ImportLogRepository{db: db}
}

// CreateRun persists a new import run record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - run: run record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ImportLogRepository) CreateRun(ctx context.Context, run *domain.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// MarkProcessing transitions a run from pending to processing.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run to transition.
// Returns:
//   - error: non-nil if the update fails.
func (r *ImportLogRepository) MarkProcessing(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).Model(&domain.ImportRun{}).
		Where("id = ? AND status = ?", runID, domain.RunStatusPending).
		Update("status", domain.RunStatusProcessing).Error
}

// UpdateProgress persists the current progress counters of a run.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run to update.
//   - processed: rows started so far.
//   - succeeded: rows that produced a post.
//   - failed: rows that failed validation or persistence.
//   - skipped: rows skipped as duplicates.
// Returns:
//   - error: non-nil if the update fails.
func (r *ImportLogRepository) UpdateProgress(ctx context.Context, runID string, processed, succeeded, failed, skipped int) error {
	return r.db.WithContext(ctx).Model(&domain.ImportRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"processed": processed,
			"succeeded": succeeded,
			"failed":    failed,
			"skipped":   skipped,
		}).Error
}

// CompleteRun records the terminal status, final counters, and completion
// time of a run. CompletedAt is set exactly once, here.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - run: run with final counters and metadata.
//   - status: terminal status (completed, failed, or partial).
// Returns:
//   - error: non-nil if the update fails.
func (r *ImportLogRepository) CompleteRun(ctx context.Context, run *domain.ImportRun, status domain.RunStatus) error {
	now := time.Now()
	run.Status = status
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Model(&domain.ImportRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":       status,
			"processed":    run.Processed,
			"succeeded":    run.Succeeded,
			"failed":       run.Failed,
			"skipped":      run.Skipped,
			"metadata":     run.Metadata,
			"completed_at": now,
		}).Error
}

// AppendEntry persists one log entry. Entries are append-only; nothing ever
// updates or deletes them afterwards.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - entry: entry to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ImportLogRepository) AppendEntry(ctx context.Context, entry *domain.ImportLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetRun retrieves a run by ID within a workspace. Runs owned by another
// workspace are reported as not found, never leaked.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - runID: run ID.
// Returns:
//   - *domain.ImportRun: run record if found.
//   - error: gorm.ErrRecordNotFound if absent or owned by another workspace.
func (r *ImportLogRepository) GetRun(ctx context.Context, workspaceID, runID string) (*domain.ImportRun, error) {
	var run domain.ImportRun
	if err := r.db.WithContext(ctx).
		First(&run, "workspace_id = ? AND id = ?", workspaceID, runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns retrieves the most recent runs for a workspace.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: owning workspace.
//   - limit: maximum number of runs to return.
// Returns:
//   - []domain.ImportRun: runs, newest first.
//   - error: non-nil if the query fails.
func (r *ImportLogRepository) ListRuns(ctx context.Context, workspaceID string, limit int) ([]domain.ImportRun, error) {
	var runs []domain.ImportRun
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Limit(limit).
		Order("started_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// ListEntries retrieves all log entries of a run in insertion order.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run whose entries to list.
// Returns:
//   - []domain.ImportLogEntry: entries ordered by append sequence.
//   - error: non-nil if the query fails.
func (r *ImportLogRepository) ListEntries(ctx context.Context, runID string) ([]domain.ImportLogEntry, error) {
	var entries []domain.ImportLogEntry
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("seq ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
