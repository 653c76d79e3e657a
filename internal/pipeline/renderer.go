package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mkarpov/groundcheck/internal/model"
)

// Renderer writes grounding reports as JSON, Markdown and terminal summaries.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as pretty-printed JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Grounding Report\n\n")
	fmt.Fprintf(&b, "**Question:** %s\n\n", report.Question)
	fmt.Fprintf(&b, "**Verdict:** %s — score %.2f\n\n", report.Verdict.Label, report.Verdict.Score)
	if report.Degraded {
		fmt.Fprintf(&b, "> Degraded mode: the embedding backend was unavailable; every claim is reported unsupported.\n\n")
	}

	fmt.Fprintf(&b, "## Answer\n\n%s\n\n", report.Answer)

	fmt.Fprintf(&b, "## Evidence\n\n")
	if len(report.Evidence) == 0 {
		fmt.Fprintf(&b, "No evidence found.\n\n")
	} else {
		for i, snip := range report.Evidence {
			fmt.Fprintf(&b, "- `[%d]` **%s** — %s\n", i, snip.Source, shortSnippet(snip.Text, 400))
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Claims\n\n")
	if len(report.Results) == 0 {
		fmt.Fprintf(&b, "No verifiable claims extracted.\n\n")
	}
	for _, res := range report.Results {
		mark := "✗"
		if res.Supported {
			mark = "✓"
		}
		fmt.Fprintf(&b, "### %s %s\n\n", mark, res.Claim)
		fmt.Fprintf(&b, "- Support score: %.3f\n", res.SupportScore)
		if res.AnnotatedEvidence != nil {
			fmt.Fprintf(&b, "- Cited evidence: [%d]\n", *res.AnnotatedEvidence)
		}
		if res.BestSentence != "" {
			fmt.Fprintf(&b, "- Best sentence: %s\n", res.BestSentence)
		} else if res.BestSnippet != nil {
			fmt.Fprintf(&b, "- Best evidence: %s — %s\n", res.BestSnippet.Source, shortSnippet(res.BestSnippet.Text, 200))
		}
		if len(res.TopEvidence) > 0 {
			fmt.Fprintf(&b, "- Top evidence: %v\n", res.TopEvidence)
		}
		if res.Error != "" {
			fmt.Fprintf(&b, "- Error: %s\n", res.Error)
		}
		fmt.Fprintf(&b, "\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by groundcheck. Scores measure evidence support, not truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a terminal summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n")
	fmt.Printf("Question:  %s\n", report.Question)
	fmt.Printf("Verdict:   %s (score %.2f)\n", report.Verdict.Label, report.Verdict.Score)
	fmt.Printf("Claims:    %d extracted, %d supported\n", len(report.Results), countSupported(report.Results))
	fmt.Printf("Evidence:  %d snippets (%s match)\n", len(report.Evidence), report.Retrieval.Kind)
	if report.Degraded {
		fmt.Printf("Note:      degraded mode, embedding backend unavailable\n")
	}
	fmt.Printf("\n")

	for _, res := range report.Results {
		mark := "✗"
		if res.Supported {
			mark = "✓"
		}
		fmt.Printf("  %s %.3f  %s\n", mark, res.SupportScore, res.Claim)
	}
	if len(report.Results) > 0 {
		fmt.Printf("\n")
	}
}

func countSupported(results []model.VerificationResult) int {
	count := 0
	for _, r := range results {
		if r.Supported {
			count++
		}
	}
	return count
}

// shortSnippet truncates long evidence text at a word boundary.
func shortSnippet(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	cut := s[:maxChars]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
