package service

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags pulls every #word token out of a caption, strips the
// leading # and lower-cases the result. Order of appearance is preserved;
// repeated tags are not de-duplicated.
// Parameters:
//   - caption: free-text caption to scan.
// Returns:
//   - []string: normalized hashtag tokens.
func ExtractHashtags(caption string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(caption, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// NormalizeHashtags produces the canonical hashtag set for a row. Explicit
// hashtags win and are used verbatim apart from lower-casing and stripping a
// leading #; otherwise tags are extracted from the caption.
// Parameters:
//   - explicit: hashtags supplied on the row, possibly empty.
//   - caption: caption to fall back to.
// Returns:
//   - []string: normalized hashtags.
func NormalizeHashtags(explicit []string, caption string) []string {
	if len(explicit) == 0 {
		return ExtractHashtags(caption)
	}
	tags := make([]string, 0, len(explicit))
	for _, t := range explicit {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SplitHashtagList splits the CSV convention of a single comma-separated
// hashtag string into individual tokens, trimmed, lower-cased, and stripped
// of a leading # per token.
// Parameters:
//   - s: comma-separated hashtag string.
// Returns:
//   - []string: normalized hashtag tokens; nil for a blank input.
func SplitHashtagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
