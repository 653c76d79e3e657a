package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mkarpov/groundcheck/internal/cache"
	"github.com/mkarpov/groundcheck/internal/embed"
	"github.com/mkarpov/groundcheck/internal/extract"
	"github.com/mkarpov/groundcheck/internal/llm"
	"github.com/mkarpov/groundcheck/internal/model"
	"github.com/mkarpov/groundcheck/internal/retrieve"
	"github.com/mkarpov/groundcheck/internal/score"
	"github.com/mkarpov/groundcheck/internal/verify"
)

// Pipeline orchestrates the complete grounding check: retrieve evidence,
// ask the answer provider, extract claims, verify them, aggregate a verdict.
type Pipeline struct {
	retriever  *retrieve.Retriever
	extractor  *extract.ClaimExtractor
	verifier   verify.Verifier
	aggregator *score.Aggregator
	answerer   llm.Provider // nil if disabled
	renderer   *Renderer
	config     *model.Config
}

// NewPipeline creates a pipeline from configuration. The embedding provider
// is constructed once here and shared read-only by the retriever and
// verifier.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	var store cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	provider, err := embed.NewProvider(cfg, store)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}

	retriever := retrieve.NewRetriever(cfg.Retrieve, provider)

	// A corpus-prepared vocabulary keeps TF-IDF vectors comparable across
	// the retrieval and verification stages.
	if texts := retriever.CorpusTexts(); len(texts) > 0 {
		if err := provider.Prepare(texts); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: preparing embedder over corpus failed: %v\n", err)
		}
	}

	var answerer llm.Provider
	if cfg.LLM.Provider != "" {
		answerer, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		}
	}

	return &Pipeline{
		retriever:  retriever,
		extractor:  extract.NewClaimExtractor(),
		verifier:   verify.NewSimilarityVerifier(provider, cfg.Verify.Threshold, cfg.Verify.TopK),
		aggregator: score.NewAggregator(),
		answerer:   answerer,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}, nil
}

// Check runs the full pipeline for one question. It always returns a
// completed report: provider failures degrade individual stages instead of
// aborting the run.
func (p *Pipeline) Check(ctx context.Context, question string) (*model.Report, error) {
	verbose := p.config.Output.Verbose

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Retrieving evidence (%d indexed questions, %d corpus paragraphs)...\n",
			p.retriever.IndexSize(), p.retriever.CorpusSize())
	}
	evidence, match := p.retriever.Retrieve(ctx, question, p.config.Retrieve.TopK)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Retrieved %d snippets (%s)\n", len(evidence), match.Kind)
		fmt.Fprintf(os.Stderr, "⚙️  Asking answer provider...\n")
	}
	answer, meta := p.ask(ctx, question, evidence)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Extracting claims...\n")
	}
	claims := p.extractor.Extract(answer)

	if verbose {
		cited := 0
		for _, c := range claims {
			if c.Annotated() {
				cited++
			}
		}
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims (%d cited)\n", len(claims), cited)
		fmt.Fprintf(os.Stderr, "⚙️  Verifying claims...\n")
	}
	results, degraded := p.verifier.Verify(ctx, claims, evidence)
	if degraded {
		fmt.Fprintf(os.Stderr, "Warning: embedding backend unavailable, all claims marked unsupported\n")
	}

	verdict := p.aggregator.Aggregate(results)

	return &model.Report{
		Question:  question,
		AskedAt:   time.Now().UTC(),
		Retrieval: match,
		Answer:    answer,
		Claims:    claims,
		Evidence:  evidence,
		Results:   results,
		Verdict:   verdict,
		Degraded:  degraded,
		LLM:       meta,
	}, nil
}

// ask produces the raw answer text. Provider failures become explanatory
// sentinel strings: downstream extraction runs on the string either way and
// typically yields zero claims.
func (p *Pipeline) ask(ctx context.Context, question string, evidence []model.EvidenceSnippet) (string, *model.AnswerMeta) {
	if p.answerer == nil {
		return "LLM not configured (set llm.provider and the matching API key).", nil
	}

	meta := &model.AnswerMeta{Provider: p.answerer.Name(), Model: p.config.LLM.Model}
	answer, err := p.answerer.Ask(ctx, question, evidence)
	if err != nil {
		return fmt.Sprintf("LLM error: %v", err), meta
	}
	return answer, meta
}

// RenderReport renders the report to the specified outputs.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}
