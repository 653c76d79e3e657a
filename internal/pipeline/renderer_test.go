package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarpov/groundcheck/internal/model"
)

func sampleReport() *model.Report {
	annotated := 0
	return &model.Report{
		Question: "Who directed Big Stone Gap?",
		Answer:   "1. The film was directed by Adriana Trigiani.\nEVIDENCE: 0",
		Evidence: []model.EvidenceSnippet{
			{ID: "pre_0", Source: "Big Stone Gap (film)", Text: "Big Stone Gap was directed by Adriana Trigiani."},
		},
		Claims: []model.Claim{{Text: "The film was directed by Adriana Trigiani.", Evidence: &annotated}},
		Results: []model.VerificationResult{{
			Claim:             "The film was directed by Adriana Trigiani.",
			SupportScore:      0.91,
			Supported:         true,
			BestSentence:      "Big Stone Gap was directed by Adriana Trigiani.",
			AnnotatedEvidence: &annotated,
			TopEvidence:       []int{0},
		}},
		Verdict: model.Verdict{Score: 0.91, Label: model.LabelGrounded},
	}
}

func TestRenderer_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	r := NewRenderer(true)
	if err := r.RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.Question != "Who directed Big Stone Gap?" {
		t.Errorf("Unexpected question: '%s'", decoded.Question)
	}
	if decoded.Verdict.Label != model.LabelGrounded {
		t.Errorf("Unexpected label: %s", decoded.Verdict.Label)
	}
	if len(decoded.Results) != 1 || !decoded.Results[0].Supported {
		t.Errorf("Unexpected results: %+v", decoded.Results)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	r := NewRenderer(true)
	if err := r.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Grounding Report",
		"Who directed Big Stone Gap?",
		"Grounded",
		"✓ The film was directed by Adriana Trigiani.",
		"Cited evidence: [0]",
		"Generated by groundcheck",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected Markdown to contain %q", want)
		}
	}
}

func TestRenderer_MarkdownNoFooter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	r := NewRenderer(false)
	if err := r.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by groundcheck") {
		t.Error("Expected footer omitted")
	}
}

func TestRenderer_MarkdownDegraded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	report := sampleReport()
	report.Degraded = true

	r := NewRenderer(true)
	if err := r.RenderMarkdown(report, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Degraded mode") {
		t.Error("Expected degraded-mode note in Markdown")
	}
}

func TestShortSnippet(t *testing.T) {
	if got := shortSnippet("short text", 100); got != "short text" {
		t.Errorf("Expected unmodified text, got '%s'", got)
	}

	long := strings.Repeat("word ", 50)
	got := shortSnippet(long, 30)
	if len(got) > 34 {
		t.Errorf("Expected truncation near 30 chars, got %d: '%s'", len(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got '%s'", got)
	}
}

func TestCountSupported(t *testing.T) {
	results := []model.VerificationResult{
		{Supported: true},
		{Supported: false},
		{Supported: true},
	}
	if got := countSupported(results); got != 2 {
		t.Errorf("Expected 2 supported, got %d", got)
	}
}
