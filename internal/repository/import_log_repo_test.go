package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRun(workspaceID string, total int) *domain.ImportRun {
	return &domain.ImportRun{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Source:      domain.ImportSourceAPI,
		Status:      domain.RunStatusPending,
		TotalItems:  total,
		Metadata:    domain.JSONMap{},
		StartedAt:   time.Now(),
	}
}

func TestImportRunLifecycle(t *testing.T) {
	repo := NewImportLogRepository(newTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New().String()

	run := newRun(workspaceID, 3)
	require.NoError(t, repo.CreateRun(ctx, run))

	stored, err := repo.GetRun(ctx, workspaceID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	require.NoError(t, repo.MarkProcessing(ctx, run.ID))
	stored, err = repo.GetRun(ctx, workspaceID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusProcessing, stored.Status)

	require.NoError(t, repo.UpdateProgress(ctx, run.ID, 2, 1, 1, 0))
	stored, err = repo.GetRun(ctx, workspaceID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Processed)
	assert.Equal(t, 1, stored.Succeeded)
	assert.Equal(t, 1, stored.Failed)

	run.Processed, run.Succeeded, run.Failed = 3, 2, 1
	require.NoError(t, repo.CompleteRun(ctx, run, domain.RunStatusPartial))

	stored, err = repo.GetRun(ctx, workspaceID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusPartial, stored.Status)
	assert.Equal(t, 3, stored.Processed)
	require.NotNil(t, stored.CompletedAt)
}

func TestGetRunCrossWorkspaceIsNotFound(t *testing.T) {
	repo := NewImportLogRepository(newTestDB(t))
	ctx := context.Background()

	run := newRun(uuid.New().String(), 1)
	require.NoError(t, repo.CreateRun(ctx, run))

	_, err := repo.GetRun(ctx, uuid.New().String(), run.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "another workspace's run must look absent, not forbidden")
}

func TestListRunsNewestFirst(t *testing.T) {
	repo := NewImportLogRepository(newTestDB(t))
	ctx := context.Background()
	workspaceID := uuid.New().String()

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		run := newRun(workspaceID, 1)
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.CreateRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRuns(ctx, workspaceID, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestListEntriesInAppendOrder(t *testing.T) {
	repo := NewImportLogRepository(newTestDB(t))
	ctx := context.Background()

	run := newRun(uuid.New().String(), 1)
	require.NoError(t, repo.CreateRun(ctx, run))

	// identical timestamps on purpose; ordering must come from seq alone
	now := time.Now()
	steps := []domain.ImportStep{
		domain.StepValidating,
		domain.StepCheckingDuplicate,
		domain.StepCreatingPost,
		domain.StepCompleted,
	}
	for i, step := range steps {
		require.NoError(t, repo.AppendEntry(ctx, &domain.ImportLogEntry{
			ID:        uuid.New().String(),
			RunID:     run.ID,
			Seq:       i + 1,
			Step:      step,
			Status:    domain.LogStatusSuccess,
			Message:   "step done",
			CreatedAt: now,
		}))
	}

	entries, err := repo.ListEntries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, entries, len(steps))
	for i, e := range entries {
		assert.Equal(t, steps[i], e.Step)
		assert.Equal(t, i+1, e.Seq)
	}
}

func TestAppendEntryDetailsRoundTrip(t *testing.T) {
	repo := NewImportLogRepository(newTestDB(t))
	ctx := context.Background()

	run := newRun(uuid.New().String(), 1)
	require.NoError(t, repo.CreateRun(ctx, run))

	require.NoError(t, repo.AppendEntry(ctx, &domain.ImportLogEntry{
		ID:      uuid.New().String(),
		RunID:   run.ID,
		Seq:     1,
		Step:    domain.StepCheckingDuplicate,
		Status:  domain.LogStatusWarning,
		Message: "post already imported",
		Details: domain.JSONMap{"existing_post_id": "abc", "row": 3},
	}))

	entries, err := repo.ListEntries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Details["existing_post_id"])
	assert.EqualValues(t, 3, entries[0].Details["row"])
}
