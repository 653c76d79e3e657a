package score

import (
	"github.com/mkarpov/groundcheck/internal/model"
)

// Label thresholds are fixed constants of the design: an aggregate score at
// or above GroundedThreshold is Grounded, at or above PartialThreshold is
// Partially Grounded, anything lower is Hallucinated.
const (
	GroundedThreshold = 0.8
	PartialThreshold  = 0.4
)

// Aggregator combines per-claim verification results into one verdict.
type Aggregator struct{}

// NewAggregator creates a new aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes the overall grounding verdict. Citations are treated as
// authoritative: when any result carries an annotated evidence index, only
// the annotated subset contributes to the mean. An empty result set scores
// 0.0.
func (a *Aggregator) Aggregate(results []model.VerificationResult) model.Verdict {
	score := meanSupport(results)
	return model.Verdict{Score: score, Label: labelFor(score)}
}

func meanSupport(results []model.VerificationResult) float64 {
	if len(results) == 0 {
		return 0.0
	}

	var annotated []model.VerificationResult
	for _, r := range results {
		if r.AnnotatedEvidence != nil {
			annotated = append(annotated, r)
		}
	}
	if len(annotated) > 0 {
		results = annotated
	}

	sum := 0.0
	for _, r := range results {
		sum += r.SupportScore
	}
	return sum / float64(len(results))
}

func labelFor(score float64) model.GroundingLabel {
	switch {
	case score >= GroundedThreshold:
		return model.LabelGrounded
	case score >= PartialThreshold:
		return model.LabelPartiallyGrounded
	default:
		return model.LabelHallucinated
	}
}
