package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarpov/groundcheck/internal/cache"
	"github.com/mkarpov/groundcheck/internal/ingest"
	"github.com/mkarpov/groundcheck/internal/worker"
)

var (
	ingestTimeout time.Duration
	ingestFile    string
	userAgent     string
	insecureTLS   bool
	httpProxy     string
	httpsProxy    string
	requestRate   float64
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Fetch web pages and append their paragraphs to the evidence corpus",
	Long: `Ingest fetches one or more URLs, extracts readable paragraphs from the
HTML and appends them to the JSONL evidence corpus used by the live
retrieval fallback. Fetches respect robots.txt and are rate limited.

Example:
  groundcheck ingest https://en.wikipedia.org/wiki/Big_Stone_Gap_(film)
  groundcheck ingest --file urls.txt --corpus data/corpus.jsonl
  groundcheck ingest https://example.org/article --rate 1`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "file with URLs to ingest (one per line)")
	ingestCmd.Flags().StringVar(&corpusPath, "corpus", "data/corpus.jsonl", "JSONL corpus to append to")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "total ingest timeout")
	ingestCmd.Flags().Float64Var(&requestRate, "rate", 2, "max requests per second per run")
	ingestCmd.Flags().StringVar(&userAgent, "ua", "Groundcheck/0.1 (+https://github.com/mkarpov/groundcheck)", "HTTP User-Agent")
	ingestCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetch)")
	ingestCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	ingestCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	urls := args
	if ingestFile != "" {
		fromFile, err := worker.ReadQuestionsFromFile(ingestFile)
		if err != nil {
			return fmt.Errorf("read url file: %w", err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given (pass them as arguments or via --file)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Retrieve.CorpusPath = corpusPath
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.RateLimit.RequestsPerSecond = requestRate

	var store cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	fetcher := ingest.NewFetcher(cfg.HTTP, store)
	ingestor := ingest.NewIngestor(fetcher, cfg)

	fmt.Fprintf(os.Stderr, "⚙️  Ingesting %d URLs into %s...\n\n", len(urls), corpusPath)

	results := ingestor.IngestAll(ctx, urls)

	okCount := 0
	skipCount := 0
	failCount := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failCount++
		case r.Skipped != "":
			skipCount++
		default:
			okCount++
		}
		fmt.Fprintln(os.Stderr, ingestResultLine(r))
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d ingested, %d skipped, %d failed\n", okCount, skipCount, failCount)

	if failCount > 0 && okCount == 0 {
		return fmt.Errorf("all %d URLs failed", failCount)
	}
	return nil
}

// ingestResultLine formats the one-line outcome for a single URL.
func ingestResultLine(r ingest.IngestResult) string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("✗ %s: %v", r.URL, r.Err)
	case r.Skipped != "":
		return fmt.Sprintf("- %s: skipped (%s)", r.URL, r.Skipped)
	default:
		note := ""
		if r.Cached {
			note = ", cached"
		}
		return fmt.Sprintf("✓ %s: %d paragraphs (%s%s)", r.URL, r.Paragraphs, r.Subject, note)
	}
}
