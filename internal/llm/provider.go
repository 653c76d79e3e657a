package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkarpov/groundcheck/internal/model"
)

// Provider defines the interface for answer providers: language models that
// answer a question from supplied evidence, citing snippet indices.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Ask answers the question using only the supplied evidence
	Ask(ctx context.Context, question string, evidence []model.EvidenceSnippet) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds answer provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 512,
	}
}

// maxPromptEvidence caps how many snippets the prompt embeds.
const maxPromptEvidence = 10

// BuildPrompt constructs the answer prompt. Evidence snippets are embedded
// with their 0-based indices, and the model is instructed to follow each
// claim with an "EVIDENCE: <idx>" line (or "EVIDENCE: none") so the claim
// extractor can recover citations.
func BuildPrompt(question string, evidence []model.EvidenceSnippet) string {
	if len(evidence) == 0 {
		return fmt.Sprintf(
			"No evidence available. Answer concisely. If you are unsure, say 'I don't know'.\n\nQuestion: %s",
			question)
	}

	var context strings.Builder
	for i, snip := range evidence {
		if i >= maxPromptEvidence {
			break
		}
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "%d: %s — %s", i, snip.Source, snip.Text)
	}

	return fmt.Sprintf(
		"You are given evidence below. Answer the question using only the evidence. "+
			"For each factual claim you make, append a line 'EVIDENCE: <idx>' where <idx> is the 0-based index "+
			"of the retrieved snippet that supports the claim. If no retrieved snippet supports the claim, write 'EVIDENCE: none'.\n\n"+
			"Evidence:\n%s\n\nQuestion: %s\nAnswer concisely and list claims followed by EVIDENCE lines.",
		context.String(), question)
}
