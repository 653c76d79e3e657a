package embed

import (
	"context"
	"encoding/json"

	"github.com/mkarpov/groundcheck/internal/cache"
)

// Cached wraps a provider with a vector cache keyed by provider name and
// text. Only providers whose vectors are stable across calls (remote models)
// should be wrapped; batch-relative vectorizers like TF-IDF must not be.
type Cached struct {
	inner Provider
	store cache.Store
}

// NewCached wraps the provider with the given cache.
func NewCached(inner Provider, store cache.Store) *Cached {
	return &Cached{inner: inner, store: store}
}

// Name returns the wrapped provider's identifier.
func (c *Cached) Name() string { return c.inner.Name() }

// Prepare delegates to the wrapped provider.
func (c *Cached) Prepare(corpus []string) error { return c.inner.Prepare(corpus) }

// Embed serves cached vectors where possible and embeds only the misses.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missing []string
	var missingAt []int

	for i, text := range texts {
		if data, ok := c.store.Get(c.key(text)); ok {
			var vec []float64
			if err := json.Unmarshal(data, &vec); err == nil {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	for i, vec := range vecs {
		out[missingAt[i]] = vec
		if data, err := json.Marshal(vec); err == nil {
			_ = c.store.Set(c.key(missing[i]), data, 0)
		}
	}
	return out, nil
}

func (c *Cached) key(text string) string {
	return cache.Key("embed:" + c.inner.Name() + ":" + text)
}
