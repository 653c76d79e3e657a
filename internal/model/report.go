package model

import "time"

// Report is the complete per-question grounding report.
type Report struct {
	Question  string         `json:"question"`
	AskedAt   time.Time      `json:"asked_at"`
	Retrieval RetrievalMatch `json:"retrieval"`

	Answer   string            `json:"answer"` // raw answer text, exactly as returned
	Claims   []Claim           `json:"claims"`
	Evidence []EvidenceSnippet `json:"evidence"`

	Results []VerificationResult `json:"results"`
	Verdict Verdict              `json:"verdict"`

	// Degraded is set when the embedding backend was unavailable and every
	// claim fell back to an unsupported zero-score result.
	Degraded bool `json:"degraded,omitempty"`

	LLM *AnswerMeta `json:"llm,omitempty"`
}

// AnswerMeta records which answer provider produced the raw answer.
type AnswerMeta struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}
