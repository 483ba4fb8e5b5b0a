package heading

import (
	"regexp"
	"strings"

	"github.com/doclens/doclens/internal/layout"
)

// Candidate threshold: accumulated confidence below this keeps a line Body.
const confidenceThreshold = 0.5

// Lines longer than this are never heading candidates, whatever the rules
// say. Merged paragraphs routinely trip the numbering rule otherwise.
const maxHeadingWords = 30

// Classified is the classifier's verdict for one merged line.
type Classified struct {
	Line       layout.Line
	Level      Level
	Confidence float64
	// TitleBand marks lines whose font ratio reaches the Title/H1 band;
	// title selection considers only these on the first two pages.
	TitleBand bool
}

// Classifier assigns each line a label using an ordered rule chain seeded
// by the layout profile.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier with the default rule chain.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules}
}

// NewClassifierWithRules builds a classifier with a custom chain, mainly
// for rule-by-rule testing.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify labels every line in document order. Header/footer suppression
// runs first and overrides the rule chain.
func (c *Classifier) Classify(lines []layout.Line, p layout.Profile) []Classified {
	noise := suppressed(lines, p)

	out := make([]Classified, 0, len(lines))
	for i, line := range lines {
		cl := Classified{Line: line, Level: LevelBody}
		if p.BodyFontSize > 0 {
			cl.TitleBand = line.FontSize/p.BodyFontSize >= ratioH1
		}

		if noise[i] {
			cl.Level = LevelNoise
			out = append(out, cl)
			continue
		}
		if line.Words() > maxHeadingWords || excluded(line.Text) {
			out = append(out, cl)
			continue
		}

		level, conf := c.fold(line, p)
		if level != "" && conf >= confidenceThreshold {
			cl.Level = level
			cl.Confidence = conf
		}
		out = append(out, cl)
	}
	return out
}

// fold runs the rule chain over one line: the first level claim wins,
// agreeing and level-neutral deltas accumulate, disagreeing claims from
// lower-priority rules are discarded. Confidence caps at 1.0.
func (c *Classifier) fold(line layout.Line, p layout.Profile) (Level, float64) {
	var level Level
	conf := 0.0
	for _, rule := range c.rules {
		sig := rule(line, p)
		if sig.Delta == 0 {
			continue
		}
		switch {
		case sig.Level == "":
			conf += sig.Delta
		case level == "":
			level = sig.Level
			conf += sig.Delta
		case sig.Level == level || sig.DefaultLevel:
			conf += sig.Delta
		}
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return level, conf
}

var digitsRe = regexp.MustCompile(`\d+`)

// excludePatterns match lines that look like headings typographically but
// never are: figure/table captions, page numbers, URLs, bare numbers,
// copyright notices, parenthesized asides.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(figure|table)\s+\d`),
	regexp.MustCompile(`(?i)^page\s+\d`),
	regexp.MustCompile(`(?i)^(www\.|https?://)`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^\(.*\)$`),
	regexp.MustCompile(`(?i)^copyright\b`),
}

var numberPrefixRe = regexp.MustCompile(`^\d+(?:\.\d+){0,2}[.)]?\s+`)

// excluded reports whether a line can never be a heading candidate: too
// short, matching an exclusion pattern, or dominated by numbers.
func excluded(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) < 2 {
		return true
	}
	for _, re := range excludePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	// A leading section number belongs to the numbering rule and must not
	// skew the digit count.
	rest := numberPrefixRe.ReplaceAllString(t, "")
	words := len(strings.Fields(rest))
	numbers := len(digitsRe.FindAllString(rest, -1))
	return words > 0 && float64(numbers)/float64(words) > 0.6
}

// normalizeRepeat canonicalizes a line for repeat detection: lowercased,
// digits stripped, whitespace collapsed. Page numbers collapse to "".
func normalizeRepeat(text string) string {
	t := digitsRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.Join(strings.Fields(t), " ")
}

// suppressed marks running headers, footers and page numbers: lines whose
// normalized text repeats on at least 60% of pages (and more than one), or
// short lines inside the top/bottom 5% margin bands.
func suppressed(lines []layout.Line, p layout.Profile) []bool {
	pagesByKey := make(map[string]map[int]bool)
	for _, line := range lines {
		key := normalizeRepeat(line.Text)
		if pagesByKey[key] == nil {
			pagesByKey[key] = make(map[int]bool)
		}
		pagesByKey[key][line.Page] = true
	}

	out := make([]bool, len(lines))
	for i, line := range lines {
		pages := len(pagesByKey[normalizeRepeat(line.Text)])
		if pages >= 2 && float64(pages) >= 0.6*float64(p.PageCount) {
			out[i] = true
			continue
		}
		if p.PageHeight > 0 && line.Words() <= 6 {
			if line.BBox.Y0 >= 0.95*p.PageHeight || line.BBox.Y1 <= 0.05*p.PageHeight {
				out[i] = true
			}
		}
	}
	return out
}

// SelectTitle picks the document title: the highest-confidence title-band
// candidate on the first two pages, falling back to the largest-font line
// on page 1, falling back to "".
func SelectTitle(classified []Classified) string {
	best := -1
	for i, cl := range classified {
		if cl.Level == LevelNoise || !cl.TitleBand || cl.Line.Page > 2 {
			continue
		}
		if cl.Confidence < confidenceThreshold {
			continue
		}
		if best < 0 ||
			cl.Confidence > classified[best].Confidence ||
			(cl.Confidence == classified[best].Confidence && cl.Line.FontSize > classified[best].Line.FontSize) {
			best = i
		}
	}
	if best >= 0 {
		return classified[best].Line.Text
	}

	// Fallback: largest font on page 1.
	for i, cl := range classified {
		if cl.Line.Page != 1 || cl.Level == LevelNoise {
			continue
		}
		if best < 0 || cl.Line.FontSize > classified[best].Line.FontSize {
			best = i
		}
	}
	if best >= 0 {
		return classified[best].Line.Text
	}
	return ""
}
