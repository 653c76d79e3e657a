package verify

import (
	"context"
	"errors"

	"github.com/mkarpov/groundcheck/internal/embed"
	"github.com/mkarpov/groundcheck/internal/model"
)

// Verifier checks claims against retrieved evidence. Implementations must
// return one result per claim, in claim order. The bool return reports
// degraded mode: the scoring backend was unavailable and every result is a
// zero-confidence fallback.
//
// The embedding-similarity verifier below is the default; an alternative
// scorer (e.g. a trained graph model) can be substituted behind this
// interface without changing pipeline behavior.
type Verifier interface {
	Verify(ctx context.Context, claims []model.Claim, evidence []model.EvidenceSnippet) ([]model.VerificationResult, bool)
}

// SimilarityVerifier verifies claims by sentence-level embedding similarity.
type SimilarityVerifier struct {
	scorer    *Scorer
	threshold float64
}

// NewSimilarityVerifier creates a verifier over the given embedding provider.
func NewSimilarityVerifier(provider embed.Provider, threshold float64, topK int) *SimilarityVerifier {
	return &SimilarityVerifier{
		scorer:    NewScorer(provider, topK),
		threshold: threshold,
	}
}

// Verify scores each claim against its cited snippet when the citation is in
// bounds, otherwise against the full evidence set. A claim scoring exactly at
// the threshold counts as supported.
//
// Embedding unavailability degrades the entire batch: no retries, no partial
// results. Other per-claim scoring failures are recorded on the result and
// the batch continues.
func (v *SimilarityVerifier) Verify(ctx context.Context, claims []model.Claim, evidence []model.EvidenceSnippet) ([]model.VerificationResult, bool) {
	results := make([]model.VerificationResult, 0, len(claims))

	for _, claim := range claims {
		res, err := v.verifyOne(ctx, claim, evidence)
		if errors.Is(err, embed.ErrUnavailable) {
			return degradedBatch(claims, evidence), true
		}
		if err != nil {
			res = model.VerificationResult{Claim: claim.Text, Error: err.Error()}
		}
		results = append(results, res)
	}
	return results, false
}

func (v *SimilarityVerifier) verifyOne(ctx context.Context, claim model.Claim, evidence []model.EvidenceSnippet) (model.VerificationResult, error) {
	result := model.VerificationResult{Claim: claim.Text}

	target := evidence
	var annotated *int
	if idx := claim.Evidence; idx != nil && *idx >= 0 && *idx < len(evidence) {
		// Citation is authoritative: score against the cited snippet only.
		target = evidence[*idx : *idx+1]
		annotated = idx
	}

	score, err := v.scorer.Score(ctx, claim.Text, target)
	if err != nil {
		return result, err
	}

	result.AnnotatedEvidence = annotated
	result.SupportScore = clamp01(score.BestScore)
	result.Supported = result.SupportScore >= v.threshold

	if score.BestIndex >= 0 {
		snipIdx := score.BestIndex
		if annotated != nil {
			snipIdx = *annotated
		}
		snip := evidence[snipIdx]
		result.BestSnippet = &snip
		result.BestSentence = score.BestSentence
	}

	result.TopEvidence = score.Ranked
	if annotated != nil && len(score.Ranked) > 0 {
		// Sub-slice indices map back to the cited snippet.
		result.TopEvidence = []int{*annotated}
	}
	return result, nil
}

// degradedBatch is the total-outage fallback: every claim unsupported with
// zero confidence, pointing at the first evidence item if any exists.
func degradedBatch(claims []model.Claim, evidence []model.EvidenceSnippet) []model.VerificationResult {
	var first *model.EvidenceSnippet
	if len(evidence) > 0 {
		snip := evidence[0]
		first = &snip
	}

	results := make([]model.VerificationResult, len(claims))
	for i, claim := range claims {
		var annotated *int
		if idx := claim.Evidence; idx != nil && *idx >= 0 && *idx < len(evidence) {
			annotated = idx
		}
		results[i] = model.VerificationResult{
			Claim:             claim.Text,
			BestSnippet:       first,
			SupportScore:      0.0,
			Supported:         false,
			AnnotatedEvidence: annotated,
		}
	}
	return results
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
