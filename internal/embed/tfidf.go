package embed

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// TFIDF is a fully offline embedding provider backed by a TF-IDF vectorizer.
// It is the default backend: deterministic, no network, no model download.
//
// When unprepared, each Embed call builds its vocabulary from the batch
// itself, which keeps vectors within one call comparable. Prepare fixes the
// vocabulary over a corpus for cross-call comparability.
type TFIDF struct {
	mu           sync.RWMutex
	vocabulary   map[string]int
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewTFIDF creates an unprepared TF-IDF provider.
func NewTFIDF() *TFIDF {
	return &TFIDF{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the provider identifier.
func (t *TFIDF) Name() string { return "tfidf" }

// Prepare builds a fixed vocabulary and IDF table from the corpus.
func (t *TFIDF) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("%w: empty corpus", ErrInvalidInput)
	}
	vocab, idf, err := t.buildVocabulary(corpus)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.vocabulary = vocab
	t.idf = idf
	t.prepared = true
	t.mu.Unlock()
	return nil
}

// Embed vectorizes the texts. Unprepared providers derive the vocabulary
// from the batch, so a single call is always self-consistent.
func (t *TFIDF) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	vocab, idf, prepared := t.vocabulary, t.idf, t.prepared
	t.mu.RUnlock()

	if !prepared {
		var err error
		vocab, idf, err = t.buildVocabulary(texts)
		if err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = t.vectorize(text, vocab, idf)
	}
	return out, nil
}

// buildVocabulary derives term indices and smoothed IDF values from the
// documents, with a stable alphabetical term ordering.
func (t *TFIDF) buildVocabulary(docs []string) (map[string]int, []float64, error) {
	df := make(map[string]int)
	for _, text := range docs {
		seen := make(map[string]struct{})
		for _, tok := range t.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("%w: no tokens in corpus", ErrInvalidInput)
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return vocab, idf, nil
}

// vectorize computes the L2-normalized TF-IDF vector of one text.
func (t *TFIDF) vectorize(text string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range t.tokenize(text) {
		if idx, ok := vocab[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (t *TFIDF) tokenize(text string) []string {
	raw := t.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, isStop := t.stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "this", "that", "these", "those",
		"from", "up", "down", "over", "under", "than", "such", "into",
		"about", "between", "through", "during", "before", "after", "above",
		"below", "out", "off", "own", "same", "too", "very", "can", "will",
		"just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
