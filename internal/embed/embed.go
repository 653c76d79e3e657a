package embed

import (
	"context"
	"errors"
	"math"
)

// Provider converts texts into vectors in a shared semantic space. Texts
// embedded within a single call are always comparable to each other;
// implementations backed by a corpus-derived vocabulary guarantee nothing
// across calls unless prepared first.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Prepare gives corpus-dependent providers a chance to build their
	// vocabulary. Remote providers treat it as a no-op.
	Prepare(corpus []string) error

	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Typed outcomes for embedding failures, so callers can tell a dead backend
// from bad input even when both degrade the same way.
var (
	// ErrUnavailable means the embedding backend cannot be reached or is not
	// configured. Callers degrade the whole batch, no retries.
	ErrUnavailable = errors.New("embedding backend unavailable")

	// ErrInvalidInput means the request itself was malformed (e.g. no texts).
	ErrInvalidInput = errors.New("invalid embedding input")
)

// Cosine computes the cosine similarity of two vectors, in [-1,1]. Vectors
// of mismatched or zero dimension yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
