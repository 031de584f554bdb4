package domain

import "time"

// Role represents the permission level attached to an API key.
// Values include RoleOwner, RoleEditor, and RoleViewer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// CanWrite reports whether the role is allowed to create or modify content.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleEditor
}

// Workspace represents a tenant. Every post, rights request, and import run
// belongs to exactly one workspace.
type Workspace struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex:idx_workspaces_slug" json:"slug"`
	Plan      string    `gorm:"type:text;default:free" json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Workspace.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Workspace) TableName() string {
	return "workspaces"
}

// APIKey represents an access credential bound to a workspace with a role.
type APIKey struct {
	ID          string     `gorm:"type:text;primaryKey" json:"id"`
	WorkspaceID string     `gorm:"type:text;not null;index" json:"workspace_id"`
	Key         string     `gorm:"type:text;not null;uniqueIndex:idx_api_keys_key" json:"-"`
	Role        Role       `gorm:"type:text;default:viewer" json:"role"`
	Label       string     `gorm:"type:text" json:"label"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for APIKey.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (APIKey) TableName() string {
	return "api_keys"
}
