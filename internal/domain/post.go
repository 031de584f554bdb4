package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Platform represents the social platform a post originates from.
// Values include PlatformTikTok, PlatformInstagram, PlatformYouTube, and PlatformManual.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformManual    Platform = "manual"
)

// ParsePlatform matches free-text platform input against the known enumeration.
// Matching is case-insensitive so CSV values like "TIKTOK" resolve correctly.
// Parameters:
//   - s: raw platform string.
// Returns:
//   - Platform: matched platform value.
//   - bool: false if the input matches no known platform.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformTikTok:
		return PlatformTikTok, true
	case PlatformInstagram:
		return PlatformInstagram, true
	case PlatformYouTube:
		return PlatformYouTube, true
	case PlatformManual:
		return PlatformManual, true
	}
	return "", false
}

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// UgcPost represents one piece of imported user-generated content.
// The composite unique index on (workspace_id, platform, post_url) is the
// duplicate-detection key; the database constraint is the authoritative
// backstop for concurrent imports racing on the same URL.
type UgcPost struct {
	ID            string       `gorm:"type:text;primaryKey" json:"id"`
	WorkspaceID   string       `gorm:"type:text;not null;index:idx_ugc_posts_source,unique" json:"workspace_id"`
	Platform      Platform     `gorm:"type:text;not null;index:idx_ugc_posts_source,unique" json:"platform"`
	PostURL       string       `gorm:"type:text;not null;index:idx_ugc_posts_source,unique" json:"post_url"`
	CreatorHandle string       `gorm:"type:text;not null" json:"creator_handle"`
	CreatorName   string       `gorm:"type:text" json:"creator_name,omitempty"`
	Caption       string       `gorm:"type:text" json:"caption,omitempty"`
	Hashtags      StringArray  `gorm:"type:text" json:"hashtags"`
	PostedAt      *time.Time   `json:"posted_at,omitempty"`
	ImportSource  ImportSource `gorm:"type:text;not null" json:"import_source"`
	MediaURL      string       `gorm:"type:text" json:"media_url,omitempty"`
	StorageKey    string       `gorm:"type:text" json:"storage_key,omitempty"`
	MediaWidth    int          `json:"media_width,omitempty"`
	MediaHeight   int          `json:"media_height,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName returns the database table name for UgcPost.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (UgcPost) TableName() string {
	return "ugc_posts"
}
