package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVRows(t *testing.T) {
	doc := strings.Join([]string{
		"post_url,platform,creator_handle,creator_name,caption,hashtags,posted_at",
		"https://tiktok.com/@a/video/1,tiktok,@a,Alice,spring haul,\"#spring, #haul\",2026-03-01",
		"https://instagram.com/p/2,instagram,@b,,,,",
	}, "\n")

	rows, err := ParseCSVRows(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "https://tiktok.com/@a/video/1", rows[0].PostURL)
	assert.Equal(t, "tiktok", rows[0].Platform)
	assert.Equal(t, "@a", rows[0].CreatorHandle)
	assert.Equal(t, "Alice", rows[0].CreatorName)
	assert.Equal(t, "#spring, #haul", rows[0].HashtagList)
	assert.Equal(t, "2026-03-01", rows[0].PostedAt)

	assert.Equal(t, "instagram", rows[1].Platform)
	assert.Empty(t, rows[1].CreatorName)
}

func TestParseCSVRowsHeaderCaseInsensitive(t *testing.T) {
	doc := "Post_URL,PLATFORM,Creator_Handle\nhttps://example.com/p/1,tiktok,@a\n"
	rows, err := ParseCSVRows(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://example.com/p/1", rows[0].PostURL)
}

func TestParseCSVRowsUnknownColumnsIgnored(t *testing.T) {
	doc := "post_url,platform,creator_handle,likes\nhttps://example.com/p/1,tiktok,@a,999\n"
	rows, err := ParseCSVRows(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestParseCSVRowsErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "missing post_url column", doc: "platform,creator_handle\ntiktok,@a\n"},
		{name: "missing platform column", doc: "post_url,creator_handle\nhttps://example.com,@a\n"},
		{name: "ragged record", doc: "post_url,platform,creator_handle\na,b\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSVRows(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseCSVRowsHeaderOnly(t *testing.T) {
	rows, err := ParseCSVRows(strings.NewReader("post_url,platform,creator_handle\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
