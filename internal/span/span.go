package span

import "strings"

// BBox is a span bounding box in page coordinates (origin bottom-left,
// y increasing upward, PDF convention).
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// TextSpan is a contiguous run of text sharing font attributes, as reported
// by a source. Read-only once a Document is built.
type TextSpan struct {
	Text     string
	FontSize float64
	Bold     bool
	Page     int // 1-based
	BBox     BBox
}

// Document is the normalized input to the analysis pipeline: one ordered
// span sequence plus document identity.
type Document struct {
	Name      string
	PageCount int
	// PageHeight is the physical page height in the same units as span
	// bounding boxes, or 0 when the source cannot determine it.
	PageHeight float64
	Spans      []TextSpan
}

// Valid reports whether a span carries the fields the pipeline requires.
// Malformed spans are skipped by Normalize, never fatal.
func (s TextSpan) Valid() bool {
	return strings.TrimSpace(s.Text) != "" && s.FontSize > 0 && s.Page >= 1
}

// Normalize trims span text, drops malformed spans and returns the number
// dropped so callers can surface a diagnostic.
func Normalize(spans []TextSpan) (kept []TextSpan, dropped int) {
	kept = make([]TextSpan, 0, len(spans))
	for _, s := range spans {
		if !s.Valid() {
			dropped++
			continue
		}
		s.Text = strings.Join(strings.Fields(s.Text), " ")
		kept = append(kept, s)
	}
	return kept, dropped
}
