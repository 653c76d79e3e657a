package model

// EvidenceSnippet represents a block of source text returned by retrieval.
// Position within the retrieved list is significant: it is the citation key
// that claims reference.
type EvidenceSnippet struct {
	ID        string  `json:"id"`
	Source    string  `json:"source"`
	Text      string  `json:"text"`
	RankScore float64 `json:"rank_score,omitempty"` // retrieval similarity, when known
}

// MatchKind describes how the retriever satisfied a question
type MatchKind string

const (
	MatchExact  MatchKind = "exact"  // normalized question found in the lookup file
	MatchFuzzy  MatchKind = "fuzzy"  // close-enough key in the lookup file
	MatchCorpus MatchKind = "corpus" // live similarity search over the local corpus
	MatchNone   MatchKind = "none"   // nothing found anywhere
)

// RetrievalMatch records which retrieval path produced the evidence.
// Surfaced in reports for debugging retrieval behavior.
type RetrievalMatch struct {
	Kind MatchKind `json:"kind"`
	Key  string    `json:"key,omitempty"` // matched lookup key or hit count detail
}
