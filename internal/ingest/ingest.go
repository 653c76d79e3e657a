package ingest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/mkarpov/groundcheck/internal/model"
	"github.com/mkarpov/groundcheck/internal/retrieve"
	"github.com/mkarpov/groundcheck/internal/worker"
)

// Paragraphs shorter than this carry no verifiable content (nav links,
// bylines) and are dropped during ingestion.
const minParagraphLen = 40

// Ingestor fetches pages politely and appends their visible text to the
// local evidence corpus.
type Ingestor struct {
	fetcher    *Fetcher
	robots     *robotsGate
	limiter    *worker.Limiter
	corpusPath string
}

// NewIngestor creates an ingestor writing to the given corpus file.
func NewIngestor(fetcher *Fetcher, cfg *model.Config) *Ingestor {
	return &Ingestor{
		fetcher:    fetcher,
		robots:     newRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		limiter:    worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
		corpusPath: cfg.Retrieve.CorpusPath,
	}
}

// IngestResult reports the outcome for one URL.
type IngestResult struct {
	URL        string
	Subject    string
	Paragraphs int
	Cached     bool
	Skipped    string // non-empty when the URL was skipped (e.g. robots.txt)
	Err        error
}

// IngestURL fetches one URL and appends its paragraphs to the corpus.
func (in *Ingestor) IngestURL(ctx context.Context, rawURL string) IngestResult {
	result := IngestResult{URL: rawURL}

	allowed, crawlDelay, err := in.robots.canFetch(ctx, rawURL)
	if err == nil && !allowed {
		result.Skipped = "disallowed by robots.txt"
		return result
	}

	if err := in.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		result.Err = fmt.Errorf("rate limit: %w", err)
		return result
	}

	fetched, err := in.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		result.Err = err
		return result
	}
	result.Subject = fetched.Subject
	result.Cached = fetched.Cached

	paragraphs := ExtractParagraphs(fetched.HTML)
	if len(paragraphs) == 0 {
		result.Skipped = "no usable text"
		return result
	}

	if err := retrieve.AppendCorpus(in.corpusPath, fetched.Subject, paragraphs); err != nil {
		result.Err = err
		return result
	}
	result.Paragraphs = len(paragraphs)
	return result
}

// IngestAll processes URLs sequentially. Ingestion is paced by the rate
// limiter anyway, so there is nothing to gain from parallel fetches against
// the same host.
func (in *Ingestor) IngestAll(ctx context.Context, urls []string) []IngestResult {
	results := make([]IngestResult, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			results = append(results, IngestResult{URL: u, Err: ctx.Err()})
			continue
		}
		results = append(results, in.IngestURL(ctx, u))
	}
	return results
}

// ExtractParagraphs pulls visible paragraph text out of an HTML page.
// Paragraph boundaries follow block elements; script, style and similar
// non-content subtrees are skipped. Unparseable input yields nothing.
func ExtractParagraphs(htmlContent string) []string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		text := collapseSpaces(current.String())
		current.Reset()
		if len(text) >= minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "nav", "footer", "header":
				return
			case "p", "li", "h1", "h2", "h3", "blockquote", "td":
				flush()
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				flush()
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				current.WriteString(text)
				current.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	flush()
	return paragraphs
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
