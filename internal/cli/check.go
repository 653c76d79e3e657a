package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarpov/groundcheck/internal/model"
	"github.com/mkarpov/groundcheck/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	topK         int
	threshold    float64
	noCache      bool
	noFooter     bool
	noRerank     bool
	resultsPath  string
	corpusPath   string
	embedderName string
	embedModel   string
	embedBaseURL string
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <question>",
	Short: "Run a grounding check for a single question",
	Long: `Check runs the complete verification pipeline for one question:
- Retrieve evidence snippets (precomputed lookup or live corpus search)
- Ask the configured language model, instructed to cite evidence indices
- Split the answer into discrete claims
- Verify each claim against evidence sentences by semantic similarity
- Aggregate per-claim support into an overall grounding verdict

Example:
  groundcheck check "Who directed Big Stone Gap?"
  groundcheck check "Who directed Big Stone Gap?" --llm-provider openai --llm-model gpt-4o-mini
  groundcheck check "Who directed Big Stone Gap?" --embedder openai --threshold 0.7 --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Verification flags
	checkCmd.Flags().Float64Var(&threshold, "threshold", 0.65, "minimum support score for a claim to count as supported")
	checkCmd.Flags().IntVar(&topK, "top-k", 5, "number of evidence snippets to retrieve")
	checkCmd.Flags().BoolVar(&noRerank, "no-rerank", false, "disable embedding rerank of lookup hits")

	// Data flags
	checkCmd.Flags().StringVar(&resultsPath, "results", "data/retrieval_results.json", "precomputed retrieval results file")
	checkCmd.Flags().StringVar(&corpusPath, "corpus", "data/corpus.jsonl", "JSONL evidence corpus for the live fallback")

	// Embedding flags
	checkCmd.Flags().StringVar(&embedderName, "embedder", "tfidf", "embedding provider (tfidf, openai, ollama)")
	checkCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name (provider-specific)")
	checkCmd.Flags().StringVar(&embedBaseURL, "embed-base-url", "", "embedding endpoint base URL (openai-compatible or ollama)")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "answer provider (openai, anthropic, ollama; empty disables)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "answer model name")

	// Misc flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding/fetch cache")
}

func runCheck(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Question: %s\n", question)
		fmt.Fprintf(os.Stderr, "Embedder: %s\n", cfg.Embed.Provider)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	report, err := p.Check(ctx, question)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the effective configuration from defaults and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Verify.Threshold = threshold
	cfg.Retrieve.TopK = topK
	cfg.Retrieve.ResultsPath = resultsPath
	cfg.Retrieve.CorpusPath = corpusPath
	cfg.Retrieve.Rerank = !noRerank
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	cfg.Embed.Provider = embedderName
	cfg.Embed.Model = embedModel
	cfg.Embed.BaseURL = embedBaseURL
	if embedderName == "openai" {
		cfg.Embed.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embed.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
