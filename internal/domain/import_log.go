package domain

import "time"

// ImportStep identifies the logical pipeline phase a log entry was recorded
// in. Steps are phases, not strict state transitions; a batch run revisits
// StepValidating once per row.
type ImportStep string

const (
	StepValidating            ImportStep = "validating"
	StepCheckingDuplicate     ImportStep = "checking_duplicate"
	StepExtractingHashtags    ImportStep = "extracting_hashtags"
	StepCreatingPost          ImportStep = "creating_post"
	StepCreatingRightsRequest ImportStep = "creating_rights_request"
	StepFetchingMedia         ImportStep = "fetching_media"
	StepCompleted             ImportStep = "completed"
	StepFailed                ImportStep = "failed"
)

// LogStatus describes the outcome of a step's execution, independent of the
// step itself. A duplicate check can end in success, warning, or error.
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusError   LogStatus = "error"
	LogStatusWarning LogStatus = "warning"
	LogStatusInfo    LogStatus = "info"
)

// ImportLogEntry represents one recorded step within an import run. Entries
// are append-only: never mutated or deleted once written. Seq is assigned in
// insertion order by the writer and preserves the causal order of pipeline
// steps even when wall-clock timestamps collide.
type ImportLogEntry struct {
	ID         string     `gorm:"type:text;primaryKey" json:"id"`
	RunID      string     `gorm:"type:text;not null;index:idx_import_log_entries_run" json:"run_id"`
	Seq        int        `gorm:"not null" json:"seq"`
	Step       ImportStep `gorm:"type:text;not null" json:"step"`
	Status     LogStatus  `gorm:"type:text;not null" json:"status"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Details    JSONMap    `gorm:"type:text" json:"details,omitempty"`
	DurationMs int64      `gorm:"default:0" json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName returns the database table name for ImportLogEntry.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ImportLogEntry) TableName() string {
	return "import_log_entries"
}
