package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/repository"
)

// runLog writes the append-only step trail of one import run. It owns the
// per-run sequence counter and measures each entry's duration against the
// previous entry of the same run, so it is not safe for concurrent use; one
// runLog belongs to exactly one run executed by one goroutine.
type runLog struct {
	repo  *repository.ImportLogRepository
	runID string
	seq   int
	last  time.Time
}

func newRunLog(repo *repository.ImportLogRepository, runID string) *runLog {
	return &runLog{
		repo:  repo,
		runID: runID,
		last:  time.Now(),
	}
}

// append records one step entry. The returned error is structural: the log
// trail could not be written, which aborts the whole run.
func (l *runLog) append(ctx context.Context, step domain.ImportStep, status domain.LogStatus, message string, details domain.JSONMap) error {
	now := time.Now()
	l.seq++
	entry := &domain.ImportLogEntry{
		ID:         uuid.New().String(),
		RunID:      l.runID,
		Seq:        l.seq,
		Step:       step,
		Status:     status,
		Message:    message,
		Details:    details,
		DurationMs: now.Sub(l.last).Milliseconds(),
		CreatedAt:  now,
	}
	l.last = now
	return l.repo.AppendEntry(ctx, entry)
}
