package cli

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Who directed Big Stone Gap?", "who-directed-big-stone-gap"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"already-clean", "already-clean"},
		{"what/about\\path:chars?", "what-about-path-chars"},
		{"???", "question"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename_LengthCap(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "question "
	}
	got := sanitizeFilename(long)
	if len(got) > 80 {
		t.Errorf("Expected filename capped at 80 chars, got %d", len(got))
	}
	if got == "" {
		t.Error("Expected non-empty filename")
	}
}
