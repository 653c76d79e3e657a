package embed

import (
	"context"
	"errors"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"mismatched dims", []float64{1, 0}, []float64{1}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		if got := Cosine(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Cosine = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestTFIDF_Deterministic(t *testing.T) {
	p := NewTFIDF()
	texts := []string{
		"The quick brown fox jumps over the lazy dog.",
		"The quick brown fox jumps over the lazy dog.",
	}

	vecs, err := p.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vecs))
	}
	if sim := Cosine(vecs[0], vecs[1]); sim < 0.999 {
		t.Errorf("Expected identical texts to have similarity ~1, got %f", sim)
	}
}

func TestTFIDF_SimilarBeatsDissimilar(t *testing.T) {
	p := NewTFIDF()
	texts := []string{
		"Paris is the capital of France.",
		"The capital city of France is Paris.",
		"Penguins live in Antarctica near frozen water.",
	}

	vecs, err := p.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	simClose := Cosine(vecs[0], vecs[1])
	simFar := Cosine(vecs[0], vecs[2])
	if simClose <= simFar {
		t.Errorf("Expected paraphrase similarity (%f) above unrelated similarity (%f)", simClose, simFar)
	}
}

func TestTFIDF_EmptyInput(t *testing.T) {
	p := NewTFIDF()

	_, err := p.Embed(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty batch, got %v", err)
	}
}

func TestTFIDF_PreparedVocabularyStableAcrossCalls(t *testing.T) {
	p := NewTFIDF()
	corpus := []string{
		"Paris is the capital of France.",
		"Berlin is the capital of Germany.",
		"Penguins live in Antarctica.",
	}
	if err := p.Prepare(corpus); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	first, err := p.Embed(context.Background(), []string{"capital of France"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := p.Embed(context.Background(), []string{"capital of France"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(first[0]) != len(second[0]) {
		t.Fatalf("Expected stable dimensionality, got %d vs %d", len(first[0]), len(second[0]))
	}
	if sim := Cosine(first[0], second[0]); sim < 0.999 {
		t.Errorf("Expected identical vectors across calls after Prepare, got similarity %f", sim)
	}
}

func TestTFIDF_PrepareEmptyCorpus(t *testing.T) {
	p := NewTFIDF()

	if err := p.Prepare(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty corpus, got %v", err)
	}
}

func TestTFIDF_UnknownTokensYieldZeroVector(t *testing.T) {
	p := NewTFIDF()
	if err := p.Prepare([]string{"Paris is the capital of France."}); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	vecs, err := p.Embed(context.Background(), []string{"zymurgy quokka"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, v := range vecs[0] {
		if v != 0 {
			t.Fatalf("Expected zero vector for out-of-vocabulary text, got %v", vecs[0])
		}
	}
}
