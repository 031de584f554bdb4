package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopvine/shopvine/internal/domain"
)

// RawRow is one unvalidated input record as it arrives from a caller. The
// same shape serves the manual JSON endpoints and the CSV path; CSV rows
// carry their hashtags as a single comma-separated string in HashtagList.
type RawRow struct {
	PostURL       string   `json:"post_url"`
	Platform      string   `json:"platform"`
	CreatorHandle string   `json:"creator_handle"`
	CreatorName   string   `json:"creator_name,omitempty"`
	Caption       string   `json:"caption,omitempty"`
	Hashtags      []string `json:"hashtags,omitempty"`
	HashtagList   string   `json:"-"`
	PostedAt      string   `json:"posted_at,omitempty"`
	MediaURL      string   `json:"media_url,omitempty"`
}

// ImportRow is the canonical, validated shape of one row.
type ImportRow struct {
	Platform      domain.Platform
	PostURL       string
	CreatorHandle string
	CreatorName   string
	Caption       string
	Hashtags      []string
	PostedAt      *time.Time
	MediaURL      string
}

// ValidationErrors maps field names to human-readable error messages.
type ValidationErrors map[string]string

// Error implements the error interface.
// Parameters: none.
// Returns:
//   - string: fields that failed validation.
func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// ValidateRow validates and normalizes one raw row into its canonical shape.
// It performs no I/O and has no side effects. For CSV rows the platform is
// free text matched case-insensitively against the enumeration and the
// hashtag list is split from its comma-separated form.
// Parameters:
//   - source: import path the row arrived through.
//   - raw: unvalidated input record.
// Returns:
//   - *ImportRow: canonical row; nil when validation fails.
//   - ValidationErrors: field-keyed errors; nil when the row is valid.
func ValidateRow(source domain.ImportSource, raw RawRow) (*ImportRow, ValidationErrors) {
	errs := ValidationErrors{}

	postURL, err := NormalizeURL(raw.PostURL)
	if err != nil {
		errs["post_url"] = err.Error()
	}

	platform, ok := domain.ParsePlatform(raw.Platform)
	if !ok {
		if strings.TrimSpace(raw.Platform) == "" {
			errs["platform"] = "platform is required"
		} else {
			errs["platform"] = fmt.Sprintf("unknown platform %q", raw.Platform)
		}
	}

	handle := strings.TrimSpace(raw.CreatorHandle)
	if handle == "" {
		errs["creator_handle"] = "creator handle is required"
	}

	var postedAt *time.Time
	if strings.TrimSpace(raw.PostedAt) != "" {
		t, err := parseTimestamp(raw.PostedAt)
		if err != nil {
			errs["posted_at"] = fmt.Sprintf("invalid timestamp %q: expected ISO-8601", raw.PostedAt)
		} else {
			postedAt = &t
		}
	}

	mediaURL := strings.TrimSpace(raw.MediaURL)
	if mediaURL != "" {
		if _, err := NormalizeURL(mediaURL); err != nil {
			errs["media_url"] = err.Error()
		}
	}

	hashtags := raw.Hashtags
	if source == domain.ImportSourceCSV && raw.HashtagList != "" {
		hashtags = SplitHashtagList(raw.HashtagList)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &ImportRow{
		Platform:      platform,
		PostURL:       postURL,
		CreatorHandle: strings.TrimPrefix(handle, "@"),
		CreatorName:   strings.TrimSpace(raw.CreatorName),
		Caption:       raw.Caption,
		Hashtags:      hashtags,
		PostedAt:      postedAt,
		MediaURL:      mediaURL,
	}, nil
}

// NormalizeURL validates a post URL and reduces it to the canonical form used
// as the duplicate-detection key: lower-cased scheme and host, no fragment,
// no trailing slash.
// Parameters:
//   - raw: URL string to normalize.
// Returns:
//   - string: normalized URL.
//   - error: non-nil if the URL is missing or malformed.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("post URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid URL format: %q (expected http or https)", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL format: %q (missing host)", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}

// parseTimestamp accepts RFC 3339 timestamps and bare dates.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
