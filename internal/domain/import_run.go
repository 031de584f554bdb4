package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ImportSource identifies the path an import came in through.
// Values include ImportSourceManual, ImportSourceCSV, and ImportSourceAPI.
type ImportSource string

const (
	ImportSourceManual ImportSource = "manual"
	ImportSourceCSV    ImportSource = "csv"
	ImportSourceAPI    ImportSource = "api"
)

// RunStatus represents the lifecycle status of an import run.
// Values include RunStatusPending, RunStatusProcessing, RunStatusCompleted,
// RunStatusFailed, and RunStatusPartial.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusPartial    RunStatus = "partial"
)

// JSONMap is a custom type for storing open key-value JSON data in the database.
// Contents are opaque to callers; no schema is enforced beyond valid JSON.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded representation of the map.
//   - error: non-nil if marshaling fails.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// ImportRun represents one invocation of the import pipeline, single-item or
// batch, together with its progress counters. Counters maintain
// Processed <= TotalItems and Succeeded+Failed <= Processed; duplicates are
// counted in Skipped and are neither successes nor failures. Runs are mutated
// only by the import service and never deleted by the pipeline.
type ImportRun struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	WorkspaceID string       `gorm:"type:text;not null;index:idx_import_runs_workspace" json:"workspace_id"`
	Source      ImportSource `gorm:"type:text;not null" json:"source"`
	Status      RunStatus    `gorm:"type:text;default:pending" json:"status"`
	TotalItems  int          `gorm:"default:0" json:"total_items"`
	Processed   int          `gorm:"default:0" json:"processed"`
	Succeeded   int          `gorm:"default:0" json:"succeeded"`
	Failed      int          `gorm:"default:0" json:"failed"`
	Skipped     int          `gorm:"default:0" json:"skipped"`
	Metadata    JSONMap      `gorm:"type:text" json:"metadata"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName returns the database table name for ImportRun.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ImportRun) TableName() string {
	return "import_runs"
}
