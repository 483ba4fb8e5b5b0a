package relevance

import "strings"

// stopWords is the fixed English stop-word list used for keyword
// extraction. Small on purpose: persona and job strings are short, and an
// aggressive list would eat domain terms.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "he": true, "her": true, "his": true,
	"i": true, "in": true, "is": true, "it": true, "its": true,
	"me": true, "my": true, "of": true, "on": true, "or": true,
	"our": true, "she": true, "that": true, "the": true, "their": true,
	"them": true, "they": true, "this": true, "to": true, "was": true,
	"we": true, "were": true, "which": true, "will": true, "with": true,
	"you": true, "your": true,
}

// tokenize lowercases and splits on non-alphanumeric runes, keeping tokens
// of at least two characters.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// Keywords extracts the distinct, stop-word-filtered keyword set of a
// string, in first-seen order for determinism.
func Keywords(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenize(s) {
		if stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// tokenSet builds a whole-word membership set for match counting.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(s) {
		set[tok] = true
	}
	return set
}
