package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mkarpov/groundcheck/internal/model"
)

// ClaimExtractor parses a free-text model answer into an ordered sequence of
// claims with optional evidence citations. It never fails on malformed input:
// the worst case is an empty claim list.
type ClaimExtractor struct{}

// NewClaimExtractor creates a new claim extractor.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// lineKind classifies one trimmed, non-empty line of the answer.
type lineKind int

const (
	lineBare lineKind = iota
	lineNumberedClaim
	lineEvidence
	lineCombined
)

// line is one classified answer line. Fields beyond text are populated
// depending on kind.
type line struct {
	kind     lineKind
	text     string // claim text for numbered/combined/bare lines
	evidence string // raw citation value: "none" or digits
}

var (
	numberedRe   = regexp.MustCompile(`^\s*(\d+)[.)]\s*(.+)$`)
	evidenceRe   = regexp.MustCompile(`(?i)^EVIDENCE\s*[:\-]\s*(none|\d+)\s*\.?\s*$`)
	combinedRe   = regexp.MustCompile(`(?i)^(.+?)\.\s*EVIDENCE\s*[:\-]\s*(none|\d+)\s*$`)
	inlineRe     = regexp.MustCompile(`(?i)EVIDENCE\s*[:\-]\s*(none|\d+)`)
	conclusionRe = regexp.MustCompile(`(?i)^(?:Therefore|Hence|So|Thus|In conclusion)\b`)

	// The whole-text fallback uses the narrower marker set the line parser
	// never sees ("Thus" only appears in multi-line answers in practice).
	fallbackConclusionRe = regexp.MustCompile(`(?i)^(?:Therefore|So|Hence|In conclusion)\b`)
)

// classifyLine tokenizes one line. Evidence lines are checked first, then
// numbered claims (so "1. X. EVIDENCE: 2" keeps its numbering stripped), then
// the combined claim+citation form. Only a line that is nothing but a
// citation counts as an evidence line; a line that starts with a citation
// and continues with prose falls through to the bare-line path, which strips
// the citation and keeps the prose as a claim.
func classifyLine(raw string) line {
	if m := evidenceRe.FindStringSubmatch(raw); m != nil {
		return line{kind: lineEvidence, evidence: strings.ToLower(m[1])}
	}
	if m := numberedRe.FindStringSubmatch(raw); m != nil {
		return line{kind: lineNumberedClaim, text: strings.TrimSpace(m[2])}
	}
	if m := combinedRe.FindStringSubmatch(raw); m != nil {
		return line{kind: lineCombined, text: strings.TrimSpace(m[1]), evidence: strings.ToLower(m[2])}
	}
	return line{kind: lineBare, text: raw}
}

// Extract parses answerText into claims, preserving input order. Claims are
// normalized to end with a period; conclusion statements are discarded.
func (e *ClaimExtractor) Extract(answerText string) []model.Claim {
	var lines []string
	for _, raw := range strings.Split(answerText, "\n") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) == 0 {
		return e.extractFromFlatText(answerText)
	}

	tokens := make([]line, len(lines))
	for i, l := range lines {
		tokens[i] = classifyLine(l)
	}

	var claims []model.Claim
	consumed := make([]bool, len(tokens))

	for i, tok := range tokens {
		if consumed[i] {
			continue
		}

		switch tok.kind {
		case lineNumberedClaim:
			text, ev, used := resolveCitation(tok.text, tokens, consumed, i)
			if used >= 0 {
				consumed[used] = true
			}
			appendClaim(&claims, text, ev)

		case lineCombined:
			appendClaim(&claims, tok.text, parseCitation(tok.evidence))

		case lineEvidence:
			// Stray citation with no preceding claim; nothing to attach it to.

		case lineBare:
			if wordCount(tok.text) <= 3 || conclusionRe.MatchString(tok.text) {
				continue
			}
			text, ev := stripInlineCitation(tok.text)
			appendClaim(&claims, text, ev)
		}
	}

	return claims
}

// resolveCitation settles the dedicated-line vs. inline-citation ambiguity
// for a numbered claim: a dedicated EVIDENCE line within the next three lines
// wins and is consumed; otherwise an inline EVIDENCE substring inside the
// claim text, stripped out. The lookahead stops at the start of another
// claim. Returns the (possibly stripped) claim text, the citation, and the
// consumed line index (-1 if none).
func resolveCitation(claimText string, tokens []line, consumed []bool, i int) (string, *int, int) {
	for j := i + 1; j < len(tokens) && j <= i+3; j++ {
		if consumed[j] {
			continue
		}
		switch tokens[j].kind {
		case lineEvidence:
			return claimText, parseCitation(tokens[j].evidence), j
		case lineNumberedClaim, lineCombined:
			// Next claim starts; its evidence is not ours.
			j = len(tokens)
		}
	}

	text, ev := stripInlineCitation(claimText)
	return text, ev, -1
}

// stripInlineCitation extracts and removes an inline EVIDENCE substring.
func stripInlineCitation(text string) (string, *int) {
	m := inlineRe.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}
	stripped := strings.TrimSpace(inlineRe.ReplaceAllString(text, ""))
	return stripped, parseCitation(strings.ToLower(m[1]))
}

// parseCitation converts a raw citation value to an index. "none" and
// unparseable values mean no citation. The index is not bounds-checked here;
// the verifier validates it against the evidence list.
func parseCitation(value string) *int {
	if value == "none" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// appendClaim normalizes and filters one candidate claim.
func appendClaim(claims *[]model.Claim, text string, evidence *int) {
	text = strings.TrimSpace(text)
	if text == "" || conclusionRe.MatchString(text) {
		return
	}
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	*claims = append(*claims, model.Claim{Text: text, Evidence: evidence})
}

// extractFromFlatText is the fallback for answers with no usable lines:
// split on sentence-ending periods, skipping periods adjacent to digits so
// "3.14" stays intact.
func (e *ClaimExtractor) extractFromFlatText(answerText string) []model.Claim {
	flat := strings.ReplaceAll(answerText, "\n", " ")

	var fragments []string
	start := 0
	for i := 0; i < len(flat); i++ {
		if flat[i] != '.' {
			continue
		}
		if i > 0 && isDigit(flat[i-1]) {
			continue
		}
		if i+1 < len(flat) && isDigit(flat[i+1]) {
			continue
		}
		fragments = append(fragments, flat[start:i])
		start = i + 1
	}
	fragments = append(fragments, flat[start:])

	var claims []model.Claim
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" || wordCount(frag) <= 3 || fallbackConclusionRe.MatchString(frag) {
			continue
		}
		if !strings.HasSuffix(frag, ".") {
			frag += "."
		}
		claims = append(claims, model.Claim{Text: frag})
	}
	return claims
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
