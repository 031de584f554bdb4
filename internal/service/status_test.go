package service

import (
	"testing"

	"github.com/shopvine/shopvine/internal/domain"
)

func TestResolveRunStatus(t *testing.T) {
	testCases := []struct {
		name      string
		total     int
		succeeded int
		failed    int
		want      domain.RunStatus
	}{
		{name: "all succeeded", total: 5, succeeded: 5, failed: 0, want: domain.RunStatusCompleted},
		{name: "all failed", total: 5, succeeded: 0, failed: 5, want: domain.RunStatusFailed},
		{name: "some failed", total: 5, succeeded: 3, failed: 2, want: domain.RunStatusPartial},
		{name: "single success", total: 1, succeeded: 1, failed: 0, want: domain.RunStatusCompleted},
		{name: "single failure", total: 1, succeeded: 0, failed: 1, want: domain.RunStatusFailed},
		{name: "all duplicates", total: 5, succeeded: 0, failed: 0, want: domain.RunStatusCompleted},
		{name: "duplicates and failures", total: 5, succeeded: 0, failed: 2, want: domain.RunStatusPartial},
		{name: "nothing processed", total: 0, succeeded: 0, failed: 0, want: domain.RunStatusCompleted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveRunStatus(tc.total, tc.succeeded, tc.failed)
			if got != tc.want {
				t.Errorf("ResolveRunStatus(%d, %d, %d) = %s, want %s",
					tc.total, tc.succeeded, tc.failed, got, tc.want)
			}
		})
	}
}
