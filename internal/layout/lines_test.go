package layout

import (
	"math"
	"testing"

	"github.com/doclens/doclens/internal/span"
)

func TestMergeLines_SameBaseline(t *testing.T) {
	spans := []span.TextSpan{
		{Text: "Hello", FontSize: 12, Page: 1, BBox: span.BBox{X0: 72, Y0: 700, X1: 100, Y1: 712}},
		{Text: "world", FontSize: 12, Page: 1, BBox: span.BBox{X0: 105, Y0: 700, X1: 140, Y1: 712}},
	}
	lines := MergeLines(spans)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "Hello world" {
		t.Errorf("expected merged text, got %q", lines[0].Text)
	}
	if lines[0].BBox.X1 != 140 {
		t.Errorf("expected bbox to extend to 140, got %v", lines[0].BBox.X1)
	}
}

func TestMergeLines_WrappedHeading(t *testing.T) {
	// Two stacked rows of the same 12pt bold text, 4pt apart vertically.
	spans := []span.TextSpan{
		{Text: "Understanding Poses for", FontSize: 12, Bold: true, Page: 1, BBox: span.BBox{X0: 72, Y0: 700, X1: 240, Y1: 712}},
		{Text: "Beginners", FontSize: 12, Bold: true, Page: 1, BBox: span.BBox{X0: 72, Y0: 684, X1: 130, Y1: 696}},
	}
	lines := MergeLines(spans)
	if len(lines) != 1 {
		t.Fatalf("expected wrapped heading to merge into 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Understanding Poses for Beginners" {
		t.Errorf("unexpected merged text: %q", lines[0].Text)
	}
}

func TestMergeLines_ParagraphGapSplits(t *testing.T) {
	spans := []span.TextSpan{
		{Text: "First block", FontSize: 12, Page: 1, BBox: span.BBox{X0: 72, Y0: 700, X1: 150, Y1: 712}},
		{Text: "Second block", FontSize: 12, Page: 1, BBox: span.BBox{X0: 72, Y0: 668, X1: 160, Y1: 680}},
	}
	lines := MergeLines(spans)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines across a paragraph gap, got %d", len(lines))
	}
}

func TestMergeLines_BoldChangeSplits(t *testing.T) {
	spans := []span.TextSpan{
		{Text: "Heading", FontSize: 12, Bold: true, Page: 1, BBox: span.BBox{X0: 72, Y0: 700, X1: 120, Y1: 712}},
		{Text: "body continues", FontSize: 12, Bold: false, Page: 1, BBox: span.BBox{X0: 125, Y0: 700, X1: 220, Y1: 712}},
	}
	lines := MergeLines(spans)
	if len(lines) != 2 {
		t.Fatalf("expected bold change to split lines, got %d", len(lines))
	}
}

func TestMergeLines_GapAnnotations(t *testing.T) {
	spans := []span.TextSpan{
		{Text: "Top of page one", FontSize: 12, Page: 1, BBox: span.BBox{X0: 72, Y0: 700, X1: 180, Y1: 712}},
		{Text: "Lower on page one", FontSize: 12, Page: 1, BBox: span.BBox{X0: 72, Y0: 668, X1: 190, Y1: 680}},
		{Text: "Top of page two", FontSize: 12, Page: 2, BBox: span.BBox{X0: 72, Y0: 700, X1: 180, Y1: 712}},
	}
	lines := MergeLines(spans)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if !lines[0].FirstOnPage {
		t.Error("expected first line to be FirstOnPage")
	}
	if lines[0].GapBelow != 20 {
		t.Errorf("expected GapBelow=20, got %v", lines[0].GapBelow)
	}
	if lines[1].FirstOnPage {
		t.Error("expected second line not to be FirstOnPage")
	}
	if lines[1].GapAbove != 20 {
		t.Errorf("expected GapAbove=20, got %v", lines[1].GapAbove)
	}
	if !math.IsInf(lines[1].GapBelow, 1) {
		t.Errorf("expected GapBelow=+Inf at page end, got %v", lines[1].GapBelow)
	}
	if !lines[2].FirstOnPage {
		t.Error("expected page-two line to be FirstOnPage")
	}
}

func TestMergeLines_Empty(t *testing.T) {
	if lines := MergeLines(nil); lines != nil {
		t.Errorf("expected nil for no spans, got %+v", lines)
	}
}
