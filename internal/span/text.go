package span

import (
	"bufio"
	"io"
	"strings"
)

// TextSource handles plain text files. Everything is body-sized; the
// classifier can still pick up numbered headings from the text itself.
type TextSource struct{}

func (p *TextSource) Extract(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newLayoutBuilder()
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			b.addBody(strings.Join(strings.Fields(current.String()), " "))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b.document(filename), nil
}
