package model

// VerificationResult is the per-claim output of the verifier. Never mutated
// after creation.
type VerificationResult struct {
	Claim             string           `json:"claim"`
	BestSnippet       *EvidenceSnippet `json:"best_snippet,omitempty"`
	BestSentence      string           `json:"best_sentence,omitempty"`
	SupportScore      float64          `json:"support_score"` // clamped to [0,1]
	Supported         bool             `json:"supported"`
	TopEvidence       []int            `json:"top_evidence,omitempty"` // snippet indices, best first
	AnnotatedEvidence *int             `json:"annotated_evidence,omitempty"`
	Error             string           `json:"error,omitempty"` // per-claim scoring failure, batch continues
}

// GroundingLabel is the three-level verdict derived from the aggregate score.
type GroundingLabel string

const (
	LabelGrounded          GroundingLabel = "grounded"
	LabelPartiallyGrounded GroundingLabel = "partially_grounded"
	LabelHallucinated      GroundingLabel = "hallucinated"
)

func (l GroundingLabel) String() string {
	switch l {
	case LabelGrounded:
		return "Grounded"
	case LabelPartiallyGrounded:
		return "Partially Grounded"
	case LabelHallucinated:
		return "Hallucinated"
	default:
		return string(l)
	}
}

// Verdict combines per-claim results into one overall grounding assessment.
type Verdict struct {
	Score float64        `json:"score"`
	Label GroundingLabel `json:"label"`
}
