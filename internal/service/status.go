package service

import "github.com/shopvine/shopvine/internal/domain"

// ResolveRunStatus maps the final per-row outcome counters of an import run to
// its terminal status. Duplicates are counted in neither succeeded nor failed,
// so a run of nothing but duplicates resolves to completed.
//
// The empty-run case (total == 0) is rejected before a run is ever created and
// does not reach this function; it falls through to completed here.
// Parameters:
//   - total: number of rows processed.
//   - succeeded: rows that produced a post.
//   - failed: rows that failed validation or persistence.
// Returns:
//   - domain.RunStatus: completed, partial, or failed.
func ResolveRunStatus(total, succeeded, failed int) domain.RunStatus {
	switch {
	case total > 0 && failed == total:
		return domain.RunStatusFailed
	case failed > 0:
		return domain.RunStatusPartial
	default:
		return domain.RunStatusCompleted
	}
}
