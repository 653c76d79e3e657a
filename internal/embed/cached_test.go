package embed

import (
	"context"
	"testing"
	"time"

	"github.com/mkarpov/groundcheck/internal/cache"
)

// stableProvider returns a fixed per-text vector and counts how many texts
// it actually embedded.
type stableProvider struct {
	embedded int
}

func (s *stableProvider) Name() string { return "stable" }

func (s *stableProvider) Prepare(corpus []string) error { return nil }

func (s *stableProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	s.embedded += len(texts)
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text)), 1}
	}
	return out, nil
}

func TestCached_ServesHitsWithoutInnerCalls(t *testing.T) {
	inner := &stableProvider{}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	cached := NewCached(inner, store)

	texts := []string{"first text", "second text"}

	first, err := cached.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inner.embedded != 2 {
		t.Fatalf("Expected 2 texts embedded on cold cache, got %d", inner.embedded)
	}

	second, err := cached.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inner.embedded != 2 {
		t.Errorf("Expected warm cache to skip the inner provider, embedded count %d", inner.embedded)
	}

	for i := range texts {
		if Cosine(first[i], second[i]) < 0.999 {
			t.Errorf("Text %d: expected identical cached vector", i)
		}
	}
}

func TestCached_EmbedsOnlyMisses(t *testing.T) {
	inner := &stableProvider{}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	cached := NewCached(inner, store)

	if _, err := cached.Embed(context.Background(), []string{"known text"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	vecs, err := cached.Embed(context.Background(), []string{"known text", "new text"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inner.embedded != 2 {
		t.Errorf("Expected only the miss to hit the inner provider, embedded count %d", inner.embedded)
	}
	if len(vecs) != 2 || vecs[0] == nil || vecs[1] == nil {
		t.Errorf("Expected both vectors populated, got %v", vecs)
	}
}

func TestCached_KeyIncludesProviderName(t *testing.T) {
	store := cache.NewMemoryCache(time.Minute, time.Minute)

	a := NewCached(&stableProvider{}, store)
	if a.key("text") == cache.Key("embed:other:text") {
		t.Error("Expected provider name to distinguish cache keys")
	}
	if a.key("text") != cache.Key("embed:stable:text") {
		t.Error("Expected key derived from provider name and text")
	}
}
