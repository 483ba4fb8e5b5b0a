package span

// Structural formats (markdown, html, docx, plain text) have headings but no
// physical geometry. The layout builder fabricates a consistent font-size
// ladder and page coordinates so the same classifier calibration applies to
// every format: heading ratios land in the H1/H2/H3 bands over a 10pt body.
const (
	synthBodySize   = 10.0
	synthPageHeight = 792.0
	synthTopY       = 720.0
	synthLeftX      = 72.0
	synthLinePitch  = 16.0
	synthPageLines  = 40
)

// headingSize maps a structural heading level onto the synthetic ladder.
func headingSize(level int) float64 {
	switch level {
	case 0: // document title
		return 24.0
	case 1:
		return 17.0
	case 2:
		return 14.0
	case 3:
		return 12.0
	default:
		return 11.0
	}
}

// layoutBuilder accumulates synthetic spans, paginating every synthPageLines
// lines so page numbers stay meaningful for unpaged formats.
type layoutBuilder struct {
	spans []TextSpan
	page  int
	line  int
}

func newLayoutBuilder() *layoutBuilder {
	return &layoutBuilder{page: 1}
}

func (b *layoutBuilder) add(text string, size float64, bold bool) {
	if text == "" {
		return
	}
	if b.line >= synthPageLines {
		b.page++
		b.line = 0
	}
	y1 := synthTopY - float64(b.line)*synthLinePitch
	b.spans = append(b.spans, TextSpan{
		Text:     text,
		FontSize: size,
		Bold:     bold,
		Page:     b.page,
		BBox: BBox{
			X0: synthLeftX,
			Y0: y1 - size,
			X1: synthLeftX + 6.0*float64(len(text)),
			Y1: y1,
		},
	})
	b.line++
}

func (b *layoutBuilder) addHeading(text string, level int) {
	b.add(text, headingSize(level), true)
}

func (b *layoutBuilder) addBody(text string) {
	b.add(text, synthBodySize, false)
}

func (b *layoutBuilder) document(name string) *Document {
	return &Document{
		Name:       name,
		PageCount:  b.page,
		PageHeight: synthPageHeight,
		Spans:      b.spans,
	}
}
