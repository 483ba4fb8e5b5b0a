package span

import (
	"strings"
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Service Manual</title><style>p { color: red; }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Getting Started</h1>
<p>Plug the device in.</p>
<h2>Troubleshooting</h2>
<p>Check the cable first.</p>
<script>console.log("ignore me")</script>
</body>
</html>`

func TestHTMLSource_HeadingsAndBody(t *testing.T) {
	src := &HTMLSource{}
	doc, err := src.Extract(strings.NewReader(sampleHTML), "manual.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		text string
		size float64
	}{
		{"Service Manual", 24},
		{"Getting Started", 17},
		{"Plug the device in.", synthBodySize},
		{"Troubleshooting", 14},
		{"Check the cable first.", synthBodySize},
	}
	if len(doc.Spans) != len(checks) {
		t.Fatalf("expected %d spans, got %d: %+v", len(checks), len(doc.Spans), doc.Spans)
	}
	for i, c := range checks {
		if doc.Spans[i].Text != c.text {
			t.Errorf("span %d: expected text %q, got %q", i, c.text, doc.Spans[i].Text)
		}
		if doc.Spans[i].FontSize != c.size {
			t.Errorf("span %d: expected size %v, got %v", i, c.size, doc.Spans[i].FontSize)
		}
	}
}

func TestHTMLSource_SkipsScriptStyleNav(t *testing.T) {
	src := &HTMLSource{}
	doc, err := src.Extract(strings.NewReader(sampleHTML), "manual.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range doc.Spans {
		if strings.Contains(s.Text, "ignore me") || strings.Contains(s.Text, "color: red") || s.Text == "Home" {
			t.Errorf("expected script/style/nav content to be skipped, got span %q", s.Text)
		}
	}
}
