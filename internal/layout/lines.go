package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/doclens/doclens/internal/span"
)

// Line is one or more vertically adjacent spans sharing font attributes,
// merged into a single classifiable unit.
type Line struct {
	Text     string
	FontSize float64
	Bold     bool
	Page     int
	BBox     span.BBox

	FirstOnPage bool
	// GapAbove and GapBelow are vertical distances to the neighboring lines
	// on the same page; +Inf when there is no neighbor.
	GapAbove float64
	GapBelow float64
}

// Words returns the number of whitespace-separated words in the line.
func (l Line) Words() int {
	return len(strings.Fields(l.Text))
}

// MergeLines assembles spans into lines in (page, top-down) order. Spans
// merge when they share the page and font attributes and the vertical gap
// between them is small relative to the font size.
func MergeLines(spans []span.TextSpan) []Line {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]span.TextSpan, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		if math.Abs(ordered[i].BBox.Y1-ordered[j].BBox.Y1) > 0.5 {
			return ordered[i].BBox.Y1 > ordered[j].BBox.Y1
		}
		return ordered[i].BBox.X0 < ordered[j].BBox.X0
	})

	var lines []Line
	var cur *Line
	var text strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(text.String())
		if cur.Text != "" {
			lines = append(lines, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, s := range ordered {
		if cur != nil && mergeable(*cur, s) {
			text.WriteByte(' ')
			text.WriteString(s.Text)
			cur.BBox.X0 = math.Min(cur.BBox.X0, s.BBox.X0)
			cur.BBox.X1 = math.Max(cur.BBox.X1, s.BBox.X1)
			cur.BBox.Y0 = math.Min(cur.BBox.Y0, s.BBox.Y0)
			continue
		}
		flush()
		cur = &Line{
			FontSize: s.FontSize,
			Bold:     s.Bold,
			Page:     s.Page,
			BBox:     s.BBox,
		}
		text.WriteString(s.Text)
	}
	flush()

	annotateGaps(lines)
	return lines
}

// mergeable reports whether the next span continues the current line.
func mergeable(cur Line, next span.TextSpan) bool {
	if next.Page != cur.Page || next.Bold != cur.Bold {
		return false
	}
	if math.Abs(next.FontSize-cur.FontSize) > 0.11 {
		return false
	}
	// Same baseline (horizontal continuation).
	if math.Abs(next.BBox.Y0-cur.BBox.Y0) < 0.5*cur.FontSize {
		return true
	}
	// Vertically adjacent: gap between the line bottom and the span top.
	gap := cur.BBox.Y0 - next.BBox.Y1
	return gap > -0.5*cur.FontSize && gap < 0.45*cur.FontSize
}

// annotateGaps fills per-line positional metadata after merging.
func annotateGaps(lines []Line) {
	for i := range lines {
		lines[i].GapAbove = math.Inf(1)
		lines[i].GapBelow = math.Inf(1)
		if i == 0 || lines[i-1].Page != lines[i].Page {
			lines[i].FirstOnPage = true
		} else {
			lines[i].GapAbove = lines[i-1].BBox.Y0 - lines[i].BBox.Y1
		}
		if i+1 < len(lines) && lines[i+1].Page == lines[i].Page {
			lines[i].GapBelow = lines[i].BBox.Y0 - lines[i+1].BBox.Y1
		}
	}
}
