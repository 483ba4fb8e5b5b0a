package span

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXSource converts .docx files into synthetic spans. Heading styles map
// onto the synthetic ladder; other paragraphs become body text.
type DOCXSource struct{}

func (p *DOCXSource) Extract(r io.Reader, filename string) (*Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "doclens-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newLayoutBuilder()

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level, ok := paragraphHeadingLevel(para); ok {
			b.addHeading(text, level)
		} else {
			b.addBody(text)
		}
	}

	return b.document(filename), nil
}

func paragraphHeadingLevel(para *docx.Paragraph) (int, bool) {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0, false
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Title"):
		return 0, true
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1, true
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2, true
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3, true
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"),
		strings.EqualFold(style, "Heading5") || strings.EqualFold(style, "heading 5"),
		strings.EqualFold(style, "Heading6") || strings.EqualFold(style, "heading 6"):
		return 4, true
	}
	return 0, false
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
