package span

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFSource extracts styled spans from PDF files. Each span groups the
// library's per-glyph text rows by baseline and font attributes.
type PDFSource struct{}

func (p *PDFSource) Extract(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "doclens-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{
		Name:      filename,
		PageCount: reader.NumPage(),
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if doc.PageHeight == 0 {
			doc.PageHeight = mediaBoxHeight(page.V)
		}
		rows, err := pageText(page)
		if err != nil {
			// Malformed content streams degrade one page, never the document.
			continue
		}
		doc.Spans = append(doc.Spans, assembleSpans(rows, i)...)
	}

	return doc, nil
}

// mediaBoxHeight resolves the page height from the MediaBox, walking up the
// page tree for inherited attributes.
func mediaBoxHeight(v pdflib.Value) float64 {
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); mb.Kind() == pdflib.Array && mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return 0
}

// pageText reads a page's styled text rows, converting library panics on
// malformed content streams into errors.
func pageText(page pdflib.Page) (rows []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content: %v", r)
		}
	}()
	content := page.Content()
	return content.Text, nil
}

// assembleSpans groups per-glyph rows sharing a baseline and font attributes
// into TextSpans, inserting spaces at word gaps.
func assembleSpans(rows []pdflib.Text, pageNum int) []TextSpan {
	if len(rows) == 0 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if math.Abs(rows[i].Y-rows[j].Y) > 0.5 {
			return rows[i].Y > rows[j].Y // top of page first
		}
		return rows[i].X < rows[j].X
	})

	var spans []TextSpan
	var cur *TextSpan
	var curFont string
	var lastX, lastW float64
	var text strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(text.String())
		if cur.Text != "" {
			spans = append(spans, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, row := range rows {
		if row.S == "" || row.FontSize <= 0 {
			continue
		}
		sameRun := cur != nil &&
			curFont == row.Font &&
			math.Abs(cur.FontSize-row.FontSize) < 0.1 &&
			math.Abs(cur.BBox.Y0-row.Y) < 0.5
		if !sameRun {
			flush()
			cur = &TextSpan{
				FontSize: row.FontSize,
				Bold:     isBoldFont(row.Font),
				Page:     pageNum,
				BBox: BBox{
					X0: row.X,
					Y0: row.Y,
					X1: row.X + row.W,
					Y1: row.Y + row.FontSize,
				},
			}
			curFont = row.Font
		} else {
			// Word gap within the run.
			if row.X-(lastX+lastW) > 0.25*row.FontSize {
				text.WriteByte(' ')
			}
			if row.X+row.W > cur.BBox.X1 {
				cur.BBox.X1 = row.X + row.W
			}
		}
		text.WriteString(row.S)
		lastX, lastW = row.X, row.W
	}
	flush()

	return spans
}

// isBoldFont infers boldness from the PostScript font name.
func isBoldFont(font string) bool {
	f := strings.ToLower(font)
	return strings.Contains(f, "bold") || strings.Contains(f, "black") || strings.Contains(f, "heavy")
}
