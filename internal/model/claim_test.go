package model

import "testing"

func TestClaim_Annotated(t *testing.T) {
	idx := 2
	cited := Claim{Text: "Paris is the capital of France.", Evidence: &idx}
	if !cited.Annotated() {
		t.Error("Expected claim with citation to be annotated")
	}

	bare := Claim{Text: "The sky is blue."}
	if bare.Annotated() {
		t.Error("Expected claim without citation to be unannotated")
	}
}
