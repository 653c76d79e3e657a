package verify

import (
	"context"
	"sort"
	"strings"

	"github.com/mkarpov/groundcheck/internal/embed"
	"github.com/mkarpov/groundcheck/internal/extract"
	"github.com/mkarpov/groundcheck/internal/model"
)

// ScoreResult is the outcome of matching one claim against a set of
// evidence snippets.
type ScoreResult struct {
	BestIndex    int     // index into the evidence slice, -1 if nothing matched
	BestSentence string  // empty on the whole-snippet fallback path
	BestScore    float64 // raw cosine, may be negative
	Ranked       []int   // snippet indices by descending best-sentence score, at most topK
}

// Scorer matches a claim to its best-supporting evidence sentence via
// embedding similarity.
type Scorer struct {
	provider embed.Provider
	topK     int
}

// NewScorer creates a scorer over the given embedding provider.
func NewScorer(provider embed.Provider, topK int) *Scorer {
	if topK <= 0 {
		topK = 3
	}
	return &Scorer{provider: provider, topK: topK}
}

// Score segments every snippet into sentences, embeds the claim and all
// sentences in one batch, and picks the snippet whose best sentence is most
// similar to the claim. When segmentation yields no usable sentences the
// claim is compared against whole-snippet embeddings instead.
func (s *Scorer) Score(ctx context.Context, claim string, evidence []model.EvidenceSnippet) (ScoreResult, error) {
	if len(evidence) == 0 {
		return ScoreResult{BestIndex: -1}, nil
	}

	var sentences []string
	var sentenceSnippet []int // parallel: owning snippet index per sentence
	for i, snip := range evidence {
		for _, sent := range extract.SplitSentences(snip.Text) {
			if strings.TrimSpace(sent) == "" {
				continue
			}
			sentences = append(sentences, sent)
			sentenceSnippet = append(sentenceSnippet, i)
		}
	}

	if len(sentences) == 0 {
		return s.scoreWholeSnippets(ctx, claim, evidence)
	}

	vectors, err := s.provider.Embed(ctx, append([]string{claim}, sentences...))
	if err != nil {
		return ScoreResult{BestIndex: -1}, err
	}
	claimVec, sentVecs := vectors[0], vectors[1:]

	// Per-snippet best sentence similarity.
	bestBySnippet := make(map[int]float64)
	bestSentenceBySnippet := make(map[int]string)
	for si, vec := range sentVecs {
		snip := sentenceSnippet[si]
		sim := embed.Cosine(claimVec, vec)
		if prev, ok := bestBySnippet[snip]; !ok || sim > prev {
			bestBySnippet[snip] = sim
			bestSentenceBySnippet[snip] = sentences[si]
		}
	}

	result := ScoreResult{BestIndex: -1, BestScore: -1}
	var present []int
	for i := range evidence {
		score, ok := bestBySnippet[i]
		if !ok {
			continue
		}
		present = append(present, i)
		if score > result.BestScore {
			result.BestScore = score
			result.BestIndex = i
			result.BestSentence = bestSentenceBySnippet[i]
		}
	}

	result.Ranked = rankSnippets(present, bestBySnippet, s.topK)
	return result, nil
}

// scoreWholeSnippets is the degenerate path: compare the claim against the
// full snippet texts directly.
func (s *Scorer) scoreWholeSnippets(ctx context.Context, claim string, evidence []model.EvidenceSnippet) (ScoreResult, error) {
	texts := make([]string, 0, len(evidence)+1)
	texts = append(texts, claim)
	for _, snip := range evidence {
		texts = append(texts, snip.Text)
	}

	vectors, err := s.provider.Embed(ctx, texts)
	if err != nil {
		return ScoreResult{BestIndex: -1}, err
	}
	claimVec := vectors[0]

	result := ScoreResult{BestIndex: -1, BestScore: -1}
	scores := make(map[int]float64, len(evidence))
	indices := make([]int, len(evidence))
	for i := range evidence {
		indices[i] = i
		scores[i] = embed.Cosine(claimVec, vectors[i+1])
		if scores[i] > result.BestScore {
			result.BestScore = scores[i]
			result.BestIndex = i
		}
	}

	result.Ranked = rankSnippets(indices, scores, s.topK)
	return result, nil
}

// rankSnippets orders snippet indices by descending score, original order on
// ties, truncated to topK.
func rankSnippets(indices []int, scores map[int]float64, topK int) []int {
	ranked := make([]int, len(indices))
	copy(ranked, indices)
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
