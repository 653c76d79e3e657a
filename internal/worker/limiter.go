package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests per host so ingestion stays polite to the
// sites it crawls. Each host gets its own token bucket with the configured
// rate and burst.
type Limiter struct {
	mu     sync.Mutex
	byHost map[string]*rate.Limiter
	rate   rate.Limit
	burst  int
}

// NewLimiter creates a limiter allowing requestsPerSecond per host.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		byHost: make(map[string]*rate.Limiter),
		rate:   rate.Limit(requestsPerSecond),
		burst:  burst,
	}
}

// Wait blocks until a request to rawURL's host is permitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	return l.hostLimiter(parsed.Host).Wait(ctx)
}

// WaitWithDelay waits for rate clearance and then sleeps for extra, which is
// how robots.txt crawl delays are honored on top of the per-host rate.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, extra time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}
	if extra <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(extra):
		return nil
	}
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.byHost[host]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.byHost[host] = lim
	}
	return lim
}
