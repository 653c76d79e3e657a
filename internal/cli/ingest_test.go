package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/mkarpov/groundcheck/internal/ingest"
)

func TestIngestResultLine_Outcomes(t *testing.T) {
	cases := []struct {
		name   string
		result ingest.IngestResult
		want   string
	}{
		{
			name:   "success",
			result: ingest.IngestResult{URL: "http://a.example", Subject: "A Topic", Paragraphs: 3},
			want:   "✓ http://a.example: 3 paragraphs (A Topic)",
		},
		{
			name:   "success from cache",
			result: ingest.IngestResult{URL: "http://a.example", Subject: "A Topic", Paragraphs: 3, Cached: true},
			want:   "✓ http://a.example: 3 paragraphs (A Topic, cached)",
		},
		{
			name:   "skipped by robots",
			result: ingest.IngestResult{URL: "http://b.example", Skipped: "disallowed by robots.txt"},
			want:   "- http://b.example: skipped (disallowed by robots.txt)",
		},
		{
			name:   "skipped for empty page",
			result: ingest.IngestResult{URL: "http://c.example", Skipped: "no usable text"},
			want:   "- http://c.example: skipped (no usable text)",
		},
		{
			name:   "failed",
			result: ingest.IngestResult{URL: "http://d.example", Err: errors.New("connection refused")},
			want:   "✗ http://d.example: connection refused",
		},
	}

	for _, tc := range cases {
		got := ingestResultLine(tc.result)
		if got != tc.want {
			t.Errorf("%s: Expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestIngestResultLine_SkipReasonIsShown(t *testing.T) {
	// The skip line must carry the reason the ingestor recorded, whatever
	// it is, not a fixed robots.txt message.
	line := ingestResultLine(ingest.IngestResult{URL: "http://e.example", Skipped: "no usable text"})
	if !strings.Contains(line, "no usable text") {
		t.Errorf("Expected skip reason in line, got %q", line)
	}
}
