package heading

import (
	"regexp"
	"strings"

	"github.com/doclens/doclens/internal/layout"
)

// Level labels a classified line.
type Level string

const (
	LevelH1    Level = "H1"
	LevelH2    Level = "H2"
	LevelH3    Level = "H3"
	LevelBody  Level = "Body"
	LevelNoise Level = "Noise"
)

// Signal is one rule's contribution to a line's classification: an optional
// level claim plus a confidence delta. A default level applies only when no
// higher-priority rule has already claimed one; its delta still counts.
type Signal struct {
	Level        Level
	Delta        float64
	DefaultLevel bool
}

// Rule is a pure scoring function over one merged line and the document
// layout profile. Rules are folded left-to-right in priority order: the
// first level claim wins, agreeing or level-neutral deltas accumulate, and
// disagreeing claims from lower-priority rules are discarded.
type Rule func(line layout.Line, p layout.Profile) Signal

// DefaultRules is the classifier's rule chain in priority order.
var DefaultRules = []Rule{
	RuleNumbering,
	RuleFontRatio,
	RuleBoldShort,
	RuleKeyword,
	RulePositional,
}

var numberingRe = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})[.)]?\s+\S`)

// RuleNumbering matches numbered headings. The numbering depth fixes the
// level directly: "1." is H1, "1.1" is H2, "1.1.1" is H3.
func RuleNumbering(line layout.Line, _ layout.Profile) Signal {
	m := numberingRe.FindStringSubmatch(line.Text)
	if m == nil {
		return Signal{}
	}
	depth := strings.Count(m[1], ".") + 1
	level := LevelH1
	switch depth {
	case 2:
		level = LevelH2
	case 3:
		level = LevelH3
	}
	return Signal{Level: level, Delta: 0.9}
}

// Font-size ratio bands relative to the body baseline. Confidence scales
// linearly within each band.
const (
	ratioH3 = 1.1
	ratioH2 = 1.25
	ratioH1 = 1.5
)

// RuleFontRatio classifies by the line's font size relative to the body
// baseline. Below 1.1x is not a heading signal.
func RuleFontRatio(line layout.Line, p layout.Profile) Signal {
	if p.BodyFontSize <= 0 {
		return Signal{}
	}
	ratio := line.FontSize / p.BodyFontSize
	switch {
	case ratio >= ratioH1:
		return Signal{Level: LevelH1, Delta: lerp(ratio, ratioH1, 2.0, 0.7, 0.9)}
	case ratio >= ratioH2:
		return Signal{Level: LevelH2, Delta: lerp(ratio, ratioH2, ratioH1, 0.5, 0.7)}
	case ratio >= ratioH3:
		return Signal{Level: LevelH3, Delta: lerp(ratio, ratioH3, ratioH2, 0.3, 0.5)}
	}
	return Signal{}
}

// RuleBoldShort boosts bold lines of at most 12 words that do not end in
// sentence punctuation, toward whatever level the ratio rule suggested (H3
// when nothing did).
func RuleBoldShort(line layout.Line, _ layout.Profile) Signal {
	if !line.Bold || line.Words() > 12 || endsSentence(line.Text) {
		return Signal{}
	}
	return Signal{Level: LevelH3, Delta: 0.3, DefaultLevel: true}
}

// headingKeywords are common section names that signal a heading even
// without layout cues.
var headingKeywords = []string{
	"abstract",
	"introduction",
	"background",
	"methodology",
	"results",
	"discussion",
	"conclusion",
	"summary",
	"references",
	"bibliography",
	"acknowledgements",
	"appendix",
	"glossary",
	"related work",
	"overview",
}

// RuleKeyword boosts lines that exactly match or start with a known section
// keyword. The level defaults to H1 unless other signals disagree.
func RuleKeyword(line layout.Line, _ layout.Profile) Signal {
	text := strings.ToLower(strings.TrimRight(line.Text, ".:"))
	for _, kw := range headingKeywords {
		if text == kw || strings.HasPrefix(text, kw+" ") {
			return Signal{Level: LevelH1, Delta: 0.2, DefaultLevel: true}
		}
	}
	return Signal{}
}

// RulePositional gives a small level-neutral boost to the first line of a
// page that is vertically isolated from the line below it.
func RulePositional(line layout.Line, _ layout.Profile) Signal {
	if line.FirstOnPage && line.GapBelow > 1.5*line.FontSize {
		return Signal{Delta: 0.1}
	}
	return Signal{}
}

func endsSentence(text string) bool {
	for _, suffix := range []string{".", "!", "?", ",", ";", ":"} {
		if strings.HasSuffix(text, suffix) {
			return true
		}
	}
	return false
}

// lerp interpolates conf linearly as v moves across [lo,hi], clamped.
func lerp(v, lo, hi, confLo, confHi float64) float64 {
	if v <= lo {
		return confLo
	}
	if v >= hi {
		return confHi
	}
	return confLo + (confHi-confLo)*(v-lo)/(hi-lo)
}
