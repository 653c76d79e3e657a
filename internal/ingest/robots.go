package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsGate answers whether a URL may be fetched under the site's
// robots.txt, caching parsed rules per host. An unreachable robots.txt
// allows fetching; an explicit disallow does not.
type robotsGate struct {
	mu         sync.RWMutex
	byHost     map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

func newRobotsGate(userAgent string, timeout time.Duration) *robotsGate {
	return &robotsGate{
		byHost:     make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// canFetch reports whether rawURL may be fetched and the crawl delay the
// site requests for this agent.
func (g *robotsGate) canFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	rules, err := g.rulesFor(ctx, parsed)
	if err != nil {
		// Unreachable robots.txt defaults to allow.
		return true, 0, nil
	}

	allowed := rules.TestAgent(parsed.Path, g.userAgent)

	var delay time.Duration
	if group := rules.FindGroup(g.userAgent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (g *robotsGate) rulesFor(ctx context.Context, page *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	rules, ok := g.byHost[page.Host]
	g.mu.RUnlock()
	if ok {
		return rules, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", page.Scheme, page.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rules, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.byHost[page.Host] = rules
	g.mu.Unlock()
	return rules, nil
}
