package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/mkarpov/groundcheck/internal/embed"
	"github.com/mkarpov/groundcheck/internal/model"
)

// Retriever supplies evidence snippets for a question. It consults a
// precomputed lookup file first (exact, then fuzzy key match) and falls back
// to a live similarity search over the local corpus. Every path tolerates
// missing data and yields an empty result rather than an error.
type Retriever struct {
	index       map[string][]model.EvidenceSnippet
	keys        []string // index keys in load order, for deterministic fuzzy search
	corpus      []corpusDoc
	provider    embed.Provider
	fuzzyCutoff float64
	rerank      bool
}

// lookupEntry is one record of the precomputed retrieval results file.
type lookupEntry struct {
	Question  string            `json:"question"`
	Retrieved []json.RawMessage `json:"retrieved"`
}

// NewRetriever loads the lookup file and corpus. Both are optional; a
// retriever over no data returns empty evidence for every question.
func NewRetriever(cfg model.RetrieveConfig, provider embed.Provider) *Retriever {
	r := &Retriever{
		index:       make(map[string][]model.EvidenceSnippet),
		corpus:      loadCorpus(cfg.CorpusPath),
		provider:    provider,
		fuzzyCutoff: cfg.FuzzyCutoff,
		rerank:      cfg.Rerank,
	}
	if r.fuzzyCutoff <= 0 {
		r.fuzzyCutoff = 0.7
	}
	r.loadLookup(cfg.ResultsPath)
	return r
}

// CorpusSize reports how many searchable paragraphs the fallback corpus has.
func (r *Retriever) CorpusSize() int { return len(r.corpus) }

// IndexSize reports how many precomputed questions are loaded.
func (r *Retriever) IndexSize() int { return len(r.index) }

// CorpusTexts returns the corpus paragraph texts, e.g. for preparing a
// corpus-dependent embedding provider.
func (r *Retriever) CorpusTexts() []string {
	texts := make([]string, len(r.corpus))
	for i, doc := range r.corpus {
		texts[i] = doc.Text
	}
	return texts
}

// Retrieve returns up to topK evidence snippets for the question, along with
// a record of which retrieval path matched.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]model.EvidenceSnippet, model.RetrievalMatch) {
	if topK <= 0 {
		topK = 5
	}
	qnorm := NormalizeQuestion(question)

	if snippets, ok := r.index[qnorm]; ok {
		return r.finish(ctx, question, snippets, topK), model.RetrievalMatch{Kind: model.MatchExact, Key: qnorm}
	}

	if key, ok := r.closestKey(qnorm); ok {
		return r.finish(ctx, question, r.index[key], topK), model.RetrievalMatch{Kind: model.MatchFuzzy, Key: key}
	}

	if len(r.corpus) > 0 {
		hits := r.searchCorpus(ctx, question, topK)
		if len(hits) > 0 {
			return hits, model.RetrievalMatch{Kind: model.MatchCorpus, Key: fmt.Sprintf("%d hits", len(hits))}
		}
	}

	return nil, model.RetrievalMatch{Kind: model.MatchNone}
}

// finish optionally reranks lookup hits by embedding similarity and
// truncates to topK.
func (r *Retriever) finish(ctx context.Context, question string, snippets []model.EvidenceSnippet, topK int) []model.EvidenceSnippet {
	if r.rerank && r.provider != nil && len(snippets) > 1 {
		if reranked, err := r.rerankByEmbedding(ctx, question, snippets); err == nil {
			snippets = reranked
		}
	}
	if len(snippets) > topK {
		snippets = snippets[:topK]
	}
	return snippets
}

func (r *Retriever) rerankByEmbedding(ctx context.Context, question string, snippets []model.EvidenceSnippet) ([]model.EvidenceSnippet, error) {
	texts := make([]string, 0, len(snippets)+1)
	texts = append(texts, question)
	for _, s := range snippets {
		texts = append(texts, s.Text)
	}

	vectors, err := r.provider.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	qVec := vectors[0]

	order := make([]int, len(snippets))
	sims := make([]float64, len(snippets))
	for i := range snippets {
		order[i] = i
		sims[i] = embed.Cosine(qVec, vectors[i+1])
	}
	sort.SliceStable(order, func(a, b int) bool { return sims[order[a]] > sims[order[b]] })

	out := make([]model.EvidenceSnippet, len(snippets))
	for i, idx := range order {
		out[i] = snippets[idx]
		out[i].RankScore = sims[idx]
	}
	return out, nil
}

// searchCorpus embeds the question together with every corpus paragraph and
// returns the topK most similar ones. Embedding failure yields no hits.
func (r *Retriever) searchCorpus(ctx context.Context, question string, topK int) []model.EvidenceSnippet {
	texts := make([]string, 0, len(r.corpus)+1)
	texts = append(texts, question)
	for _, doc := range r.corpus {
		texts = append(texts, doc.Text)
	}

	vectors, err := r.provider.Embed(ctx, texts)
	if err != nil {
		return nil
	}
	qVec := vectors[0]

	order := make([]int, len(r.corpus))
	sims := make([]float64, len(r.corpus))
	for i := range r.corpus {
		order[i] = i
		sims[i] = embed.Cosine(qVec, vectors[i+1])
	}
	sort.SliceStable(order, func(a, b int) bool { return sims[order[a]] > sims[order[b]] })

	if len(order) > topK {
		order = order[:topK]
	}
	out := make([]model.EvidenceSnippet, len(order))
	for i, idx := range order {
		out[i] = model.EvidenceSnippet{
			ID:        fmt.Sprintf("corpus_%d", idx),
			Source:    r.corpus[idx].Source,
			Text:      r.corpus[idx].Text,
			RankScore: sims[idx],
		}
	}
	return out
}

// closestKey finds the most similar index key at or above the fuzzy cutoff.
func (r *Retriever) closestKey(qnorm string) (string, bool) {
	best := ""
	bestRatio := 0.0
	for _, key := range r.keys {
		ratio := similarityRatio(qnorm, key)
		if ratio > bestRatio {
			bestRatio = ratio
			best = key
		}
	}
	if bestRatio >= r.fuzzyCutoff {
		return best, true
	}
	return "", false
}

// loadLookup reads the precomputed retrieval results file. Missing or
// malformed files leave the index empty.
func (r *Retriever) loadLookup(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var entries []lookupEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return
	}

	for _, entry := range entries {
		key := NormalizeQuestion(entry.Question)
		if key == "" {
			continue
		}
		if _, exists := r.index[key]; !exists {
			r.keys = append(r.keys, key)
		}
		r.index[key] = normalizeSnippets(entry.Retrieved)
	}
}

// normalizeSnippets converts raw retrieved entries, which may be objects of
// varying field names or bare strings, into evidence snippets.
func normalizeSnippets(raw []json.RawMessage) []model.EvidenceSnippet {
	out := make([]model.EvidenceSnippet, 0, len(raw))
	for i, item := range raw {
		var obj struct {
			ID      string  `json:"id"`
			Source  string  `json:"source"`
			Snippet string  `json:"snippet"`
			Text    string  `json:"text"`
			Score   float64 `json:"score"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && (obj.Snippet != "" || obj.Text != "" || obj.Source != "") {
			text := obj.Snippet
			if text == "" {
				text = obj.Text
			}
			source := obj.Source
			if source == "" {
				source = obj.ID
			}
			if source == "" {
				source = fmt.Sprintf("source_%d", i)
			}
			out = append(out, model.EvidenceSnippet{
				ID:        fmt.Sprintf("pre_%d", i),
				Source:    source,
				Text:      text,
				RankScore: obj.Score,
			})
			continue
		}

		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, model.EvidenceSnippet{
				ID:     fmt.Sprintf("pre_%d", i),
				Source: fmt.Sprintf("source_%d", i),
				Text:   s,
			})
		}
	}
	return out
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeQuestion canonicalizes a question for lookup: escaped quotes and
// whitespace sequences collapsed, HTML entities decoded, lowercased.
func NormalizeQuestion(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, `\t`, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

// similarityRatio is a difflib-style ratio in [0,1]: twice the length of the
// longest common subsequence over the combined length.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}
