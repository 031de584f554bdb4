package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/logger"
	"github.com/shopvine/shopvine/internal/repository"
	"gorm.io/gorm"
)

// ErrNoRows is returned when an import is invoked with an empty row set. The
// check fires before any run record is created.
var ErrNoRows = errors.New("import: no rows provided")

// ImportService drives import runs: validation, duplicate checking, post
// persistence, and rights-request bootstrap, with a durable log entry per
// step and an aggregate status rollup at the end.
//
// Rows within one run are processed strictly sequentially; the run's counters
// are owned by the executing goroutine alone. Runs for different callers may
// execute concurrently, in which case the database uniqueness constraint on
// (workspace, platform, post_url) resolves duplicate races: a constraint
// violation while persisting is an expected, row-scoped failure.
// PostStore is the post persistence surface the pipeline depends on. Satisfied
// by repository.PostRepository; Create must report uniqueness-constraint
// violations as gorm.ErrDuplicatedKey.
type PostStore interface {
	Create(ctx context.Context, post *domain.UgcPost) error
	Update(ctx context.Context, post *domain.UgcPost) error
	FindBySourceURL(ctx context.Context, workspaceID string, platform domain.Platform, postURL string) (*domain.UgcPost, error)
}

type ImportService struct {
	posts  PostStore
	rights *repository.RightsRequestRepository
	logs   *repository.ImportLogRepository
	media  *MediaFetcher
	logger *logger.Logger

	progressInterval int
	errorCap         int
	stepTimeout      time.Duration
}

// ImportOptions holds tuning knobs for the import service.
type ImportOptions struct {
	ProgressInterval int           // persist run counters every N rows
	ErrorCap         int           // cap on row errors returned to callers
	StepTimeout      time.Duration // bound on each I/O step; 0 disables
}

// NewImportService creates a new import service.
// Parameters:
//   - posts: post repository.
//   - rights: rights request repository.
//   - logs: import run/log store.
//   - media: media fetcher; nil disables the fetching_media step.
//   - log: base logger.
//   - opts: tuning options; nil uses defaults.
// Returns:
//   - *ImportService: initialized service.
func NewImportService(
	posts PostStore,
	rights *repository.RightsRequestRepository,
	logs *repository.ImportLogRepository,
	media *MediaFetcher,
	log *logger.Logger,
	opts *ImportOptions,
) *ImportService {
	if opts == nil {
		opts = &ImportOptions{}
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 5
	}
	if opts.ErrorCap <= 0 {
		opts.ErrorCap = 10
	}
	return &ImportService{
		posts:            posts,
		rights:           rights,
		logs:             logs,
		media:            media,
		logger:           log,
		progressInterval: opts.ProgressInterval,
		errorCap:         opts.ErrorCap,
		stepTimeout:      opts.StepTimeout,
	}
}

// RowError describes one failed row, capped to the first errorCap rows in the
// result returned to callers. The full detail lives in the run's log entries.
type RowError struct {
	Row     int               `json:"row"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ImportResult is the outcome of one import invocation. A partially failed
// run is still a successful invocation: callers always receive the run with
// its final counters.
type ImportResult struct {
	Run       *domain.ImportRun `json:"run"`
	Posts     []*domain.UgcPost `json:"posts,omitempty"`
	RowErrors []RowError        `json:"errors,omitempty"`
}

type rowOutcome int

const (
	rowSucceeded rowOutcome = iota
	rowFailed
	rowSkipped
)

// Run executes one import: a single row for the manual path or many for a
// batch. Row-level failures and duplicates never abort the run; only
// structural failures of the log store do, in which case an already created
// run is marked failed best-effort rather than left processing. Cancelling
// ctx between rows stops starting new rows and finalizes the run with
// whatever has been processed.
// Parameters:
//   - ctx: context for cancellation; checked between rows, never mid-row.
//   - workspaceID: tenant the import belongs to.
//   - source: import path (manual, csv, api).
//   - rows: non-empty ordered row payloads.
// Returns:
//   - *ImportResult: run with final counters, created posts, capped row errors.
//   - error: ErrNoRows or a structural failure.
func (s *ImportService) Run(ctx context.Context, workspaceID string, source domain.ImportSource, rows []RawRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	run := &domain.ImportRun{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Source:      source,
		Status:      domain.RunStatusPending,
		TotalItems:  len(rows),
		Metadata:    domain.JSONMap{},
		StartedAt:   time.Now(),
	}
	if err := s.createRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to open import run: %w", err)
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldRunID:       run.ID,
		logger.FieldWorkspaceID: workspaceID,
		logger.FieldSource:      string(source),
	})
	logger.CtxInfo(ctx, "Import run started with %d rows", run.TotalItems)

	rl := newRunLog(s.logs, run.ID)

	if err := s.logs.MarkProcessing(ctx, run.ID); err != nil {
		s.abortRun(ctx, rl, run, err)
		return nil, fmt.Errorf("failed to start import run: %w", err)
	}
	run.Status = domain.RunStatusProcessing

	result := &ImportResult{Run: run}
	cancelled := false

	for i, raw := range rows {
		// no cancellation mid-row: a row's steps run as a unit once started
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		outcome, post, rowErr, err := s.processRow(ctx, rl, run, i+1, raw)
		if err != nil {
			s.abortRun(ctx, rl, run, err)
			return nil, err
		}

		run.Processed++
		switch outcome {
		case rowSucceeded:
			run.Succeeded++
			result.Posts = append(result.Posts, post)
		case rowFailed:
			run.Failed++
			if rowErr != nil && len(result.RowErrors) < s.errorCap {
				result.RowErrors = append(result.RowErrors, *rowErr)
			}
		case rowSkipped:
			run.Skipped++
		}

		// bound write amplification on large batches while keeping progress
		// visible to readers of the run record
		if run.Processed%s.progressInterval == 0 || run.Processed == run.TotalItems {
			if err := s.logs.UpdateProgress(ctx, run.ID, run.Processed, run.Succeeded, run.Failed, run.Skipped); err != nil {
				logger.CtxWarn(ctx, "Failed to persist progress counters: %v", err)
			}
		}
	}

	if cancelled {
		run.Metadata["cancelled"] = true
		logger.CtxWarn(ctx, "Import run cancelled after %d of %d rows", run.Processed, run.TotalItems)
	}

	status := ResolveRunStatus(run.Processed, run.Succeeded, run.Failed)
	if err := s.finalizeRun(ctx, rl, run, status); err != nil {
		return result, err
	}

	logger.With(logger.Fields{
		logger.FieldStatus:     string(status),
		logger.FieldDurationMs: time.Since(run.StartedAt).Milliseconds(),
		logger.FieldCount:      run.Processed,
	}).Info(ctx, "Import run finished: %d imported, %d failed, %d skipped", run.Succeeded, run.Failed, run.Skipped)

	return result, nil
}

// processRow drives one row through the pipeline steps. The returned error is
// structural (log trail unwritable); row-level problems are reported through
// the outcome instead and never abort the batch.
func (s *ImportService) processRow(ctx context.Context, rl *runLog, run *domain.ImportRun, idx int, raw RawRow) (rowOutcome, *domain.UgcPost, *RowError, error) {
	if err := rl.append(ctx, domain.StepValidating, domain.LogStatusInfo,
		fmt.Sprintf("Starting row %d of %d", idx, run.TotalItems),
		domain.JSONMap{"row": idx}); err != nil {
		return rowFailed, nil, nil, err
	}

	row, verrs := ValidateRow(run.Source, raw)
	if len(verrs) > 0 {
		if err := rl.append(ctx, domain.StepValidating, domain.LogStatusError,
			fmt.Sprintf("Row %d failed validation", idx),
			domain.JSONMap{"row": idx, "errors": verrs, "post_url": raw.PostURL}); err != nil {
			return rowFailed, nil, nil, err
		}
		return rowFailed, nil, &RowError{Row: idx, Message: "validation failed", Fields: verrs}, nil
	}
	if err := rl.append(ctx, domain.StepValidating, domain.LogStatusSuccess,
		fmt.Sprintf("Row %d validated", idx), nil); err != nil {
		return rowFailed, nil, nil, err
	}

	// duplicate pre-check; the unique constraint below backstops races
	existing, dupErr := s.findDuplicate(ctx, run.WorkspaceID, row)
	if dupErr != nil && !errors.Is(dupErr, gorm.ErrRecordNotFound) {
		if err := rl.append(ctx, domain.StepCheckingDuplicate, domain.LogStatusError,
			fmt.Sprintf("Row %d failed: duplicate check error", idx),
			domain.JSONMap{"row": idx, "error": dupErr.Error()}); err != nil {
			return rowFailed, nil, nil, err
		}
		return rowFailed, nil, &RowError{Row: idx, Message: "duplicate check failed"}, nil
	}
	if existing != nil {
		if err := rl.append(ctx, domain.StepCheckingDuplicate, domain.LogStatusWarning,
			fmt.Sprintf("Row %d skipped: post already imported", idx),
			domain.JSONMap{"row": idx, "existing_post_id": existing.ID}); err != nil {
			return rowFailed, nil, nil, err
		}
		return rowSkipped, nil, nil, nil
	}
	if err := rl.append(ctx, domain.StepCheckingDuplicate, domain.LogStatusSuccess,
		fmt.Sprintf("No duplicate found for row %d", idx), nil); err != nil {
		return rowFailed, nil, nil, err
	}

	hashtags := NormalizeHashtags(row.Hashtags, row.Caption)
	if err := rl.append(ctx, domain.StepExtractingHashtags, domain.LogStatusSuccess,
		fmt.Sprintf("Extracted %d hashtags", len(hashtags)),
		domain.JSONMap{"count": len(hashtags)}); err != nil {
		return rowFailed, nil, nil, err
	}

	post := &domain.UgcPost{
		ID:            uuid.New().String(),
		WorkspaceID:   run.WorkspaceID,
		Platform:      row.Platform,
		PostURL:       row.PostURL,
		CreatorHandle: row.CreatorHandle,
		CreatorName:   row.CreatorName,
		Caption:       row.Caption,
		Hashtags:      domain.StringArray(hashtags),
		PostedAt:      row.PostedAt,
		ImportSource:  run.Source,
		MediaURL:      row.MediaURL,
	}
	if err := s.createPost(ctx, post); err != nil {
		details := domain.JSONMap{"row": idx, "error": err.Error()}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race against a concurrent run that passed the same pre-check
			details["duplicate_race"] = true
		}
		if aerr := rl.append(ctx, domain.StepCreatingPost, domain.LogStatusError,
			fmt.Sprintf("Row %d failed: could not create post", idx), details); aerr != nil {
			return rowFailed, nil, nil, aerr
		}
		return rowFailed, nil, &RowError{Row: idx, Message: "could not create post"}, nil
	}
	if err := rl.append(ctx, domain.StepCreatingPost, domain.LogStatusSuccess,
		fmt.Sprintf("Created post for row %d", idx),
		domain.JSONMap{"post_id": post.ID}); err != nil {
		return rowFailed, nil, nil, err
	}

	// rights bootstrap is best-effort: the post is the success criterion for
	// the row, so a failure here is a warning, not a row failure
	if err := s.bootstrapRights(ctx, rl, idx, post); err != nil {
		return rowFailed, nil, nil, err
	}

	if s.media != nil && row.MediaURL != "" {
		if err := s.fetchMedia(ctx, rl, idx, post, row.MediaURL); err != nil {
			return rowFailed, nil, nil, err
		}
	}

	return rowSucceeded, post, nil, nil
}

func (s *ImportService) bootstrapRights(ctx context.Context, rl *runLog, idx int, post *domain.UgcPost) error {
	req := &domain.RightsRequest{
		ID:          uuid.New().String(),
		WorkspaceID: post.WorkspaceID,
		PostID:      post.ID,
		Status:      domain.RightsStatusPending,
	}
	stepCtx, cancel := s.withStepTimeout(ctx)
	err := s.rights.Create(stepCtx, req)
	cancel()
	if err != nil {
		return rl.append(ctx, domain.StepCreatingRightsRequest, domain.LogStatusWarning,
			fmt.Sprintf("Rights request bootstrap failed for row %d", idx),
			domain.JSONMap{"row": idx, "post_id": post.ID, "error": err.Error()})
	}
	return rl.append(ctx, domain.StepCreatingRightsRequest, domain.LogStatusSuccess,
		fmt.Sprintf("Created rights request for row %d", idx),
		domain.JSONMap{"rights_request_id": req.ID})
}

// fetchMedia downloads and stores the row's media. Best-effort all the way
// through: any failure is a warning and the row still succeeds.
func (s *ImportService) fetchMedia(ctx context.Context, rl *runLog, idx int, post *domain.UgcPost, mediaURL string) error {
	info, err := s.media.Fetch(ctx, post.WorkspaceID, post.ID, mediaURL)
	if err != nil {
		return rl.append(ctx, domain.StepFetchingMedia, domain.LogStatusWarning,
			fmt.Sprintf("Media fetch failed for row %d", idx),
			domain.JSONMap{"row": idx, "media_url": mediaURL, "error": err.Error()})
	}

	post.StorageKey = info.StorageKey
	post.MediaWidth = info.Width
	post.MediaHeight = info.Height
	stepCtx, cancel := s.withStepTimeout(ctx)
	err = s.posts.Update(stepCtx, post)
	cancel()
	if err != nil {
		return rl.append(ctx, domain.StepFetchingMedia, domain.LogStatusWarning,
			fmt.Sprintf("Media stored but post update failed for row %d", idx),
			domain.JSONMap{"row": idx, "storage_key": info.StorageKey, "error": err.Error()})
	}

	return rl.append(ctx, domain.StepFetchingMedia, domain.LogStatusSuccess,
		fmt.Sprintf("Fetched media for row %d", idx),
		domain.JSONMap{"storage_key": info.StorageKey, "width": info.Width, "height": info.Height, "size": info.Size})
}

// finalizeRun writes the terminal log entry and persists the final status and
// counters. The terminal entry is always the last entry of the run.
func (s *ImportService) finalizeRun(ctx context.Context, rl *runLog, run *domain.ImportRun, status domain.RunStatus) error {
	summary := fmt.Sprintf("Import completed: %d imported, %d failed, %d skipped", run.Succeeded, run.Failed, run.Skipped)
	step, logStatus := domain.StepCompleted, domain.LogStatusSuccess
	if status == domain.RunStatusFailed {
		step, logStatus = domain.StepFailed, domain.LogStatusError
		summary = fmt.Sprintf("Import failed: all %d rows failed", run.Failed)
	}

	if err := rl.append(ctx, step, logStatus, summary, domain.JSONMap{
		"total":     run.TotalItems,
		"processed": run.Processed,
		"succeeded": run.Succeeded,
		"failed":    run.Failed,
		"skipped":   run.Skipped,
	}); err != nil {
		logger.CtxWarn(ctx, "Failed to write terminal log entry: %v", err)
	}

	if err := s.logs.CompleteRun(ctx, run, status); err != nil {
		return fmt.Errorf("failed to complete import run: %w", err)
	}
	return nil
}

// abortRun marks an already created run as failed after a structural failure,
// best-effort, so it is never left processing forever.
func (s *ImportService) abortRun(ctx context.Context, rl *runLog, run *domain.ImportRun, cause error) {
	logger.CtxError(ctx, "Import run aborted: %v", cause)
	run.Metadata["abort_error"] = cause.Error()
	if err := rl.append(ctx, domain.StepFailed, domain.LogStatusError,
		"Import aborted: "+cause.Error(), nil); err != nil {
		logger.CtxWarn(ctx, "Failed to write abort log entry: %v", err)
	}
	if err := s.logs.CompleteRun(ctx, run, domain.RunStatusFailed); err != nil {
		logger.CtxError(ctx, "Failed to mark aborted run as failed: %v", err)
	}
}

func (s *ImportService) createRun(ctx context.Context, run *domain.ImportRun) error {
	stepCtx, cancel := s.withStepTimeout(ctx)
	defer cancel()
	return s.logs.CreateRun(stepCtx, run)
}

func (s *ImportService) findDuplicate(ctx context.Context, workspaceID string, row *ImportRow) (*domain.UgcPost, error) {
	stepCtx, cancel := s.withStepTimeout(ctx)
	defer cancel()
	return s.posts.FindBySourceURL(stepCtx, workspaceID, row.Platform, row.PostURL)
}

func (s *ImportService) createPost(ctx context.Context, post *domain.UgcPost) error {
	stepCtx, cancel := s.withStepTimeout(ctx)
	defer cancel()
	return s.posts.Create(stepCtx, post)
}

// RunEntries returns the ordered log entries of a run. Thin passthrough to
// the log store, exposed so callers can inspect per-step detail of a run they
// just executed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run whose entries to list.
// Returns:
//   - []domain.ImportLogEntry: entries ordered by append sequence.
//   - error: non-nil if the query fails.
func (s *ImportService) RunEntries(ctx context.Context, runID string) ([]domain.ImportLogEntry, error) {
	return s.logs.ListEntries(ctx, runID)
}

// withStepTimeout bounds one I/O step. A timeout surfaces as an ordinary step
// failure: logged, counted, and the row abandoned.
func (s *ImportService) withStepTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stepTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.stepTimeout)
}
