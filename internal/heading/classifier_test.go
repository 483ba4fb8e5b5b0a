package heading

import (
	"fmt"
	"testing"

	"github.com/doclens/doclens/internal/layout"
)

func testProfile() layout.Profile {
	return layout.Profile{BodyFontSize: 10, PageCount: 1}
}

func line(text string, size float64, bold bool, page int) layout.Line {
	return layout.Line{Text: text, FontSize: size, Bold: bold, Page: page}
}

func TestClassify_NumberingOutranksFontRatio(t *testing.T) {
	// 13pt over a 10pt body lands in the H2 ratio band, but "1." fixes H1.
	c := NewClassifier()
	out := c.Classify([]layout.Line{line("1. Introduction", 13, true, 1)}, testProfile())

	if out[0].Level != LevelH1 {
		t.Fatalf("expected H1, got %s", out[0].Level)
	}
	if out[0].Confidence != 1.0 {
		t.Errorf("expected capped confidence 1.0, got %v", out[0].Confidence)
	}
}

func TestClassify_NumberingDepth(t *testing.T) {
	cases := []struct {
		text string
		want Level
	}{
		{"2. Methods", LevelH1},
		{"2.1 Sampling", LevelH2},
		{"2.1.3 Outliers", LevelH3},
	}
	c := NewClassifier()
	for _, tc := range cases {
		out := c.Classify([]layout.Line{line(tc.text, 10, false, 1)}, testProfile())
		if out[0].Level != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.text, tc.want, out[0].Level)
		}
	}
}

func TestClassify_FontRatioBands(t *testing.T) {
	cases := []struct {
		size float64
		want Level
	}{
		{15, LevelH1},   // ratio 1.5
		{12.5, LevelH2}, // ratio 1.25
		{11, LevelBody}, // ratio 1.1 alone stays under the threshold
		{10, LevelBody},
	}
	c := NewClassifier()
	for _, tc := range cases {
		out := c.Classify([]layout.Line{line("Quarterly Revenue Figures", tc.size, false, 1)}, testProfile())
		if out[0].Level != tc.want {
			t.Errorf("size %v: expected %s, got %s", tc.size, tc.want, out[0].Level)
		}
	}
}

func TestClassify_BoldShortLiftsWeakRatio(t *testing.T) {
	// Ratio 1.1 contributes 0.3 toward H3; bold-short adds 0.3 more.
	c := NewClassifier()
	out := c.Classify([]layout.Line{line("Regional Sales Breakdown", 11, true, 1)}, testProfile())
	if out[0].Level != LevelH3 {
		t.Fatalf("expected H3, got %s", out[0].Level)
	}
}

func TestClassify_SentencePunctuationBlocksBoldBoost(t *testing.T) {
	c := NewClassifier()
	out := c.Classify([]layout.Line{line("Regional sales grew fast.", 11, true, 1)}, testProfile())
	if out[0].Level != LevelBody {
		t.Errorf("expected Body for bold sentence, got %s", out[0].Level)
	}
}

func TestClassify_LongLineStaysBody(t *testing.T) {
	text := "1. "
	for i := 0; i < 31; i++ {
		text += fmt.Sprintf("word%d ", i)
	}
	c := NewClassifier()
	out := c.Classify([]layout.Line{line(text, 13, true, 1)}, testProfile())
	if out[0].Level != LevelBody {
		t.Errorf("expected Body for a 32-word line, got %s", out[0].Level)
	}
}

func TestClassify_CaptionsAndFurnitureStayBody(t *testing.T) {
	// Bold 11pt over a 10pt body would pass the bold-short rule, but
	// captions, URLs and number-heavy lines are never heading candidates.
	cases := []string{
		"Figure 3: Annual Revenue",
		"Table 4 Summary of Results",
		"Page 12",
		"www.example.com/reports",
		"https://example.com/annual",
		"2024 2025 2026 totals",
		"(see appendix)",
		"Copyright 2024 Acme Corp",
		"7",
	}
	c := NewClassifier()
	for _, text := range cases {
		out := c.Classify([]layout.Line{line(text, 11, true, 1)}, testProfile())
		if out[0].Level != LevelBody {
			t.Errorf("%q: expected Body, got %s", text, out[0].Level)
		}
	}
}

func TestClassify_NumberedHeadingNotExcludedAsNumeric(t *testing.T) {
	// "2.1 Sampling" is half digits by token count, but the section number
	// belongs to the numbering rule.
	c := NewClassifier()
	out := c.Classify([]layout.Line{line("2.1 Sampling", 10, false, 1)}, testProfile())
	if out[0].Level != LevelH2 {
		t.Errorf("expected H2, got %s", out[0].Level)
	}
}

func TestClassify_KeywordBoost(t *testing.T) {
	// "References" at body size is not a heading; with a weak ratio it is.
	c := NewClassifier()
	out := c.Classify([]layout.Line{line("References", 11, false, 1)}, testProfile())
	// ratio 0.3 + keyword 0.2 = 0.5, at the threshold.
	if out[0].Level != LevelH3 {
		t.Errorf("expected H3 for keyword plus weak ratio, got %s", out[0].Level)
	}
}

func TestClassify_SuppressesRepeatingHeaders(t *testing.T) {
	var lines []layout.Line
	for page := 1; page <= 10; page++ {
		lines = append(lines, line("Annual Report 2024", 10, false, page))
		lines = append(lines, line(fmt.Sprintf("Unique content for section %c.", 'a'+page), 10, false, page))
	}
	p := layout.Profile{BodyFontSize: 10, PageCount: 10}

	out := NewClassifier().Classify(lines, p)
	for i, cl := range out {
		isHeader := cl.Line.Text == "Annual Report 2024"
		if isHeader && cl.Level != LevelNoise {
			t.Errorf("line %d: expected repeating header to be Noise, got %s", i, cl.Level)
		}
		if !isHeader && cl.Level == LevelNoise {
			t.Errorf("line %d: unique line wrongly suppressed", i)
		}
	}
}

func TestClassify_SinglePageRepeatNotSuppressed(t *testing.T) {
	lines := []layout.Line{line("Annual Report 2024", 10, false, 1)}
	out := NewClassifier().Classify(lines, layout.Profile{BodyFontSize: 10, PageCount: 1})
	if out[0].Level == LevelNoise {
		t.Error("expected single-page line not to be suppressed")
	}
}

func TestClassify_SuppressesMarginPageNumbers(t *testing.T) {
	l := line("7", 10, false, 3)
	l.BBox.Y0 = 20
	l.BBox.Y1 = 30
	p := layout.Profile{BodyFontSize: 10, PageCount: 10, PageHeight: 792}

	out := NewClassifier().Classify([]layout.Line{l}, p)
	if out[0].Level != LevelNoise {
		t.Errorf("expected footer page number to be Noise, got %s", out[0].Level)
	}
}

func TestClassify_NoMarginSuppressionWithoutPageHeight(t *testing.T) {
	l := line("7", 10, false, 3)
	l.BBox.Y0 = 20
	l.BBox.Y1 = 30
	p := layout.Profile{BodyFontSize: 10, PageCount: 10}

	out := NewClassifier().Classify([]layout.Line{l}, p)
	if out[0].Level == LevelNoise {
		t.Error("expected no margin suppression when page height is unknown")
	}
}

func TestSelectTitle_PrefersTitleBand(t *testing.T) {
	classified := []Classified{
		{Line: line("Annual Report", 24, true, 1), Level: LevelH1, Confidence: 0.9, TitleBand: true},
		{Line: line("Introduction", 15, true, 1), Level: LevelH1, Confidence: 0.8},
	}
	if got := SelectTitle(classified); got != "Annual Report" {
		t.Errorf("expected title %q, got %q", "Annual Report", got)
	}
}

func TestSelectTitle_FallsBackToLargestFontOnPageOne(t *testing.T) {
	classified := []Classified{
		{Line: line("Some body text", 10, false, 1), Level: LevelBody},
		{Line: line("Modest Heading", 12, true, 1), Level: LevelH3, Confidence: 0.6},
	}
	if got := SelectTitle(classified); got != "Modest Heading" {
		t.Errorf("expected fallback title %q, got %q", "Modest Heading", got)
	}
}

func TestSelectTitle_Empty(t *testing.T) {
	if got := SelectTitle(nil); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}
