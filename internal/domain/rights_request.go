package domain

import (
	"strings"
	"time"
)

// RightsStatus represents the state of a usage-rights request.
// Values include RightsStatusPending, RightsStatusRequested,
// RightsStatusApproved, and RightsStatusDenied.
type RightsStatus string

const (
	RightsStatusPending   RightsStatus = "pending"
	RightsStatusRequested RightsStatus = "requested"
	RightsStatusApproved  RightsStatus = "approved"
	RightsStatusDenied    RightsStatus = "denied"
)

// ParseRightsStatus parses a rights status string, case-insensitive.
// Parameters:
//   - s: raw status value.
// Returns:
//   - RightsStatus: parsed status.
//   - bool: false if s is not a known status.
func ParseRightsStatus(s string) (RightsStatus, bool) {
	switch RightsStatus(strings.ToLower(strings.TrimSpace(s))) {
	case RightsStatusPending:
		return RightsStatusPending, true
	case RightsStatusRequested:
		return RightsStatusRequested, true
	case RightsStatusApproved:
		return RightsStatusApproved, true
	case RightsStatusDenied:
		return RightsStatusDenied, true
	}
	return "", false
}

// RightsRequest represents the usage-rights record bootstrapped 1:1 for every
// imported post, initially pending. Its creation is best-effort: a bootstrap
// failure does not invalidate the post it belongs to.
type RightsRequest struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	WorkspaceID string       `gorm:"type:text;not null;index" json:"workspace_id"`
	PostID      string       `gorm:"type:text;not null;uniqueIndex:idx_rights_requests_post" json:"post_id"`
	Status      RightsStatus `gorm:"type:text;default:pending" json:"status"`
	RequestedAt *time.Time   `json:"requested_at,omitempty"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName returns the database table name for RightsRequest.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (RightsRequest) TableName() string {
	return "rights_requests"
}
