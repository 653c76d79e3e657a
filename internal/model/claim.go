package model

// Claim represents a single verifiable factual statement extracted from a
// model answer. Text is normalized at extraction time: trimmed and always
// terminated with a period.
type Claim struct {
	Text     string `json:"text"`
	Evidence *int   `json:"evidence,omitempty"` // 0-based index into the evidence list, nil if uncited
}

// Annotated reports whether the claim carries an explicit evidence citation.
func (c Claim) Annotated() bool {
	return c.Evidence != nil
}
