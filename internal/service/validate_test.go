package service

import (
	"testing"
	"time"

	"github.com/shopvine/shopvine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRowValid(t *testing.T) {
	row, errs := ValidateRow(domain.ImportSourceManual, RawRow{
		PostURL:       "https://www.tiktok.com/@jane/video/123",
		Platform:      "tiktok",
		CreatorHandle: "@jane",
		CreatorName:   " Jane Doe ",
		Caption:       "spring haul #OOTD",
		PostedAt:      "2026-03-01T10:00:00Z",
	})
	require.Nil(t, errs)
	require.NotNil(t, row)

	assert.Equal(t, domain.PlatformTikTok, row.Platform)
	assert.Equal(t, "https://www.tiktok.com/@jane/video/123", row.PostURL)
	assert.Equal(t, "jane", row.CreatorHandle, "leading @ is stripped")
	assert.Equal(t, "Jane Doe", row.CreatorName)
	require.NotNil(t, row.PostedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), row.PostedAt.UTC())
}

func TestValidateRowErrors(t *testing.T) {
	testCases := []struct {
		name       string
		raw        RawRow
		wantFields []string
	}{
		{
			name:       "missing url",
			raw:        RawRow{Platform: "tiktok", CreatorHandle: "jane"},
			wantFields: []string{"post_url"},
		},
		{
			name:       "not a url",
			raw:        RawRow{PostURL: "not-a-url", Platform: "tiktok", CreatorHandle: "jane"},
			wantFields: []string{"post_url"},
		},
		{
			name:       "unknown platform",
			raw:        RawRow{PostURL: "https://example.com/p/1", Platform: "myspace", CreatorHandle: "jane"},
			wantFields: []string{"platform"},
		},
		{
			name:       "missing platform",
			raw:        RawRow{PostURL: "https://example.com/p/1", CreatorHandle: "jane"},
			wantFields: []string{"platform"},
		},
		{
			name:       "missing handle",
			raw:        RawRow{PostURL: "https://example.com/p/1", Platform: "instagram"},
			wantFields: []string{"creator_handle"},
		},
		{
			name:       "bad timestamp",
			raw:        RawRow{PostURL: "https://example.com/p/1", Platform: "instagram", CreatorHandle: "jane", PostedAt: "yesterday"},
			wantFields: []string{"posted_at"},
		},
		{
			name:       "bad media url",
			raw:        RawRow{PostURL: "https://example.com/p/1", Platform: "instagram", CreatorHandle: "jane", MediaURL: "ftp://example.com/a.jpg"},
			wantFields: []string{"media_url"},
		},
		{
			name:       "everything wrong at once",
			raw:        RawRow{PostURL: "nope", Platform: "", CreatorHandle: ""},
			wantFields: []string{"post_url", "platform", "creator_handle"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row, errs := ValidateRow(domain.ImportSourceManual, tc.raw)
			assert.Nil(t, row)
			require.NotNil(t, errs)
			assert.Len(t, errs, len(tc.wantFields))
			for _, f := range tc.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateRowCaseInsensitivePlatform(t *testing.T) {
	row, errs := ValidateRow(domain.ImportSourceCSV, RawRow{
		PostURL:       "https://example.com/p/1",
		Platform:      "TIKTOK",
		CreatorHandle: "jane",
	})
	require.Nil(t, errs)
	assert.Equal(t, domain.PlatformTikTok, row.Platform)
}

func TestValidateRowCSVHashtagList(t *testing.T) {
	row, errs := ValidateRow(domain.ImportSourceCSV, RawRow{
		PostURL:       "https://example.com/p/1",
		Platform:      "instagram",
		CreatorHandle: "jane",
		HashtagList:   "#Summer, ootd",
	})
	require.Nil(t, errs)
	assert.Equal(t, []string{"summer", "ootd"}, row.Hashtags)
}

func TestNormalizeURL(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already canonical", input: "https://example.com/p/1", want: "https://example.com/p/1"},
		{name: "host lowercased", input: "https://Example.COM/p/1", want: "https://example.com/p/1"},
		{name: "scheme lowercased", input: "HTTPS://example.com/p/1", want: "https://example.com/p/1"},
		{name: "fragment stripped", input: "https://example.com/p/1#comments", want: "https://example.com/p/1"},
		{name: "trailing slash stripped", input: "https://example.com/p/1/", want: "https://example.com/p/1"},
		{name: "path case preserved", input: "https://example.com/P/AbC", want: "https://example.com/P/AbC"},
		{name: "query preserved", input: "https://example.com/p/1?ref=x", want: "https://example.com/p/1?ref=x"},
		{name: "empty", input: "", wantErr: true},
		{name: "no scheme", input: "example.com/p/1", wantErr: true},
		{name: "wrong scheme", input: "ftp://example.com/p/1", wantErr: true},
		{name: "no host", input: "https:///p/1", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeURL(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
