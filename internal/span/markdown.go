package span

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSource converts Markdown into synthetic spans using goldmark.
// ATX heading levels map onto the synthetic font-size ladder.
type MarkdownSource struct{}

func (p *MarkdownSource) Extract(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	b := newLayoutBuilder()

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.addHeading(string(node.Text(src)), node.Level)
		default:
			for _, para := range splitBlocks(blockText(n, src)) {
				b.addBody(para)
			}
		}
	}

	return b.document(filename), nil
}

// blockText gets the text content of a goldmark AST node. Leaf blocks carry
// their raw source lines; container blocks recurse into children.
func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if part := blockText(c, src); part != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(part)
		}
	}
	return strings.TrimSpace(buf.String())
}

// splitBlocks breaks block text into paragraph-sized pieces.
func splitBlocks(text string) []string {
	var out []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
