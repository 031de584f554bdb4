package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csv column names follow the snake_case convention of the batch templates
var csvRequiredColumns = []string{"post_url", "platform", "creator_handle"}

// ParseCSVRows reads a CSV document into raw rows. The first record is the
// header; columns are matched by name, unknown columns are ignored, and the
// hashtags column is carried as its comma-separated string for the validator
// to split.
// Parameters:
//   - r: CSV document reader.
// Returns:
//   - []RawRow: one raw row per data record.
//   - error: non-nil if the document is malformed or misses required columns.
func ParseCSVRows(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv document is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvRequiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, RawRow{
			PostURL:       field(record, "post_url"),
			Platform:      field(record, "platform"),
			CreatorHandle: field(record, "creator_handle"),
			CreatorName:   field(record, "creator_name"),
			Caption:       field(record, "caption"),
			HashtagList:   field(record, "hashtags"),
			PostedAt:      field(record, "posted_at"),
			MediaURL:      field(record, "media_url"),
		})
	}

	return rows, nil
}
