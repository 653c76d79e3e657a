package embed

import (
	"fmt"
	"strings"

	"github.com/mkarpov/groundcheck/internal/cache"
	"github.com/mkarpov/groundcheck/internal/model"
)

// NewProvider creates the configured embedding provider. Remote providers
// are wrapped with the vector cache when one is supplied; TF-IDF vectors are
// batch-relative and never cached.
func NewProvider(cfg *model.Config, store cache.Store) (Provider, error) {
	switch strings.ToLower(cfg.Embed.Provider) {
	case "", "tfidf":
		return NewTFIDF(), nil

	case "openai":
		p, err := NewOpenAI(cfg.Embed)
		if err != nil {
			return nil, err
		}
		return maybeCache(p, store), nil

	case "ollama":
		return maybeCache(NewOllama(cfg.Embed, cfg.HTTP), store), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: tfidf, openai, ollama)", cfg.Embed.Provider)
	}
}

func maybeCache(p Provider, store cache.Store) Provider {
	if store == nil {
		return p
	}
	return NewCached(p, store)
}
