package extract

import (
	"strings"
	"testing"
)

func TestClaimExtractor_NumberedWithEvidenceLines(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "1. The sky is blue.\nEVIDENCE: 0\n2. Water boils at 100C.\nEVIDENCE: none"

	claims := extractor.Extract(answer)

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}

	if claims[0].Text != "The sky is blue." {
		t.Errorf("Expected first claim 'The sky is blue.', got '%s'", claims[0].Text)
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 0 {
		t.Errorf("Expected first claim cited evidence 0, got %v", claims[0].Evidence)
	}

	if claims[1].Text != "Water boils at 100C." {
		t.Errorf("Expected second claim 'Water boils at 100C.', got '%s'", claims[1].Text)
	}
	if claims[1].Evidence != nil {
		t.Errorf("Expected second claim without citation, got %d", *claims[1].Evidence)
	}
}

func TestClaimExtractor_InlineCitationRoundTrip(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("1. Paris is the capital of France. EVIDENCE: 2")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Text != "Paris is the capital of France." {
		t.Errorf("Expected 'Paris is the capital of France.', got '%s'", claims[0].Text)
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 2 {
		t.Errorf("Expected cited evidence 2, got %v", claims[0].Evidence)
	}
}

func TestClaimExtractor_CombinedLineWithNone(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("The Eiffel Tower is in Paris. EVIDENCE: none")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Text != "The Eiffel Tower is in Paris." {
		t.Errorf("Expected 'The Eiffel Tower is in Paris.', got '%s'", claims[0].Text)
	}
	if claims[0].Evidence != nil {
		t.Errorf("Expected no citation for 'none', got %d", *claims[0].Evidence)
	}
}

func TestClaimExtractor_DedicatedLineBeatsInline(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "1. The moon orbits the earth. EVIDENCE: 3\nEVIDENCE: 1"

	claims := extractor.Extract(answer)

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 1 {
		t.Errorf("Expected dedicated evidence line to win with index 1, got %v", claims[0].Evidence)
	}
}

func TestClaimExtractor_LookaheadStopsAtNextClaim(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "1. The first claim is about rivers.\n2. The second claim is about mountains.\nEVIDENCE: 1"

	claims := extractor.Extract(answer)

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}
	if claims[0].Evidence != nil {
		t.Errorf("Expected first claim without citation, got %d", *claims[0].Evidence)
	}
	if claims[1].Evidence == nil || *claims[1].Evidence != 1 {
		t.Errorf("Expected second claim cited evidence 1, got %v", claims[1].Evidence)
	}
}

func TestClaimExtractor_ConclusionFiltering(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := strings.Join([]string{
		"The battery lasts roughly ten hours.",
		"Therefore the laptop suits long flights.",
		"Thus nobody should worry about chargers.",
		"In conclusion, this is a good machine.",
	}, "\n")

	claims := extractor.Extract(answer)

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim after conclusion filtering, got %d", len(claims))
	}
	for _, c := range claims {
		lower := strings.ToLower(c.Text)
		for _, marker := range []string{"therefore", "thus", "in conclusion", "hence"} {
			if strings.HasPrefix(lower, marker) {
				t.Errorf("Conclusion marker '%s' should never appear as a claim: %s", marker, c.Text)
			}
		}
	}
}

func TestClaimExtractor_ShortBareLinesSkipped(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "Yes it is.\nThe answer is definitely forty-two units."

	claims := extractor.Extract(answer)

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim (3-word line skipped), got %d", len(claims))
	}
	if claims[0].Text != "The answer is definitely forty-two units." {
		t.Errorf("Unexpected claim text: '%s'", claims[0].Text)
	}
}

func TestClaimExtractor_Normalization(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("  The tower was completed in 1889  ")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Text != "The tower was completed in 1889." {
		t.Errorf("Expected trimmed, period-terminated claim, got '%s'", claims[0].Text)
	}
}

func TestClaimExtractor_StrayEvidenceLine(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("EVIDENCE: 2")

	if len(claims) != 0 {
		t.Errorf("Expected 0 claims for a stray evidence line, got %d", len(claims))
	}
}

func TestClaimExtractor_EmptyInput(t *testing.T) {
	extractor := NewClaimExtractor()

	for _, input := range []string{"", "   ", "\n\n\n"} {
		claims := extractor.Extract(input)
		if len(claims) != 0 {
			t.Errorf("Expected 0 claims for input %q, got %d", input, len(claims))
		}
	}
}

func TestClaimExtractor_OrderPreserved(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "1. Alpha was founded in 1990.\n2. Beta was founded in 1995.\n3. Gamma was founded in 2000."

	claims := extractor.Extract(answer)

	if len(claims) != 3 {
		t.Fatalf("Expected 3 claims, got %d", len(claims))
	}
	want := []string{"Alpha", "Beta", "Gamma"}
	for i, prefix := range want {
		if !strings.HasPrefix(claims[i].Text, prefix) {
			t.Errorf("Expected claim %d to start with '%s', got '%s'", i, prefix, claims[i].Text)
		}
	}
}

func TestClaimExtractor_CaseInsensitiveEvidence(t *testing.T) {
	extractor := NewClaimExtractor()

	answer := "1. The library opened its doors in 1905.\nevidence- 4"

	claims := extractor.Extract(answer)

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 4 {
		t.Errorf("Expected lowercase 'evidence-' citation to parse as 4, got %v", claims[0].Evidence)
	}
}

func TestExtractFromFlatText_SentenceSplitting(t *testing.T) {
	extractor := NewClaimExtractor()

	text := "The bridge opened to traffic long ago. It spans the strait near the city. Therefore it is famous. Pi is roughly 3.14159 in decimal notation."

	claims := extractor.extractFromFlatText(text)

	if len(claims) != 3 {
		t.Fatalf("Expected 3 claims, got %d: %v", len(claims), claims)
	}
	for _, c := range claims {
		if strings.HasPrefix(strings.ToLower(c.Text), "therefore") {
			t.Errorf("Conclusion fragment should be excluded: %s", c.Text)
		}
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("Expected period-terminated claim, got '%s'", c.Text)
		}
	}

	found := false
	for _, c := range claims {
		if strings.Contains(c.Text, "3.14159") {
			found = true
		}
	}
	if !found {
		t.Error("Expected decimal number to survive splitting intact")
	}
}

func TestExtractFromFlatText_ShortFragmentsDropped(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.extractFromFlatText("Too short. This fragment has more than three words in it.")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if !strings.Contains(claims[0].Text, "more than three words") {
		t.Errorf("Unexpected surviving fragment: '%s'", claims[0].Text)
	}
}

func TestClaimExtractor_CitationPrefixedProseLine(t *testing.T) {
	extractor := NewClaimExtractor()

	// A citation followed by prose on the same line is a claim, not a
	// dangling citation to discard.
	claims := extractor.Extract("EVIDENCE: 2 The sky appears blue due to scattering of light.")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Text != "The sky appears blue due to scattering of light." {
		t.Errorf("Expected prose claim without the citation prefix, got '%s'", claims[0].Text)
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 2 {
		t.Errorf("Expected cited evidence 2, got %v", claims[0].Evidence)
	}
}

func TestClaimExtractor_EvidenceLineWithTrailingPeriod(t *testing.T) {
	extractor := NewClaimExtractor()

	claims := extractor.Extract("1. Mount Everest is the tallest mountain.\nEVIDENCE: 1.")

	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Evidence == nil || *claims[0].Evidence != 1 {
		t.Errorf("Expected cited evidence 1, got %v", claims[0].Evidence)
	}
}
