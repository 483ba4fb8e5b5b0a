package outline

import (
	"strings"

	"github.com/doclens/doclens/internal/heading"
)

// Entry is one public outline item; classifier-internal confidence is
// stripped.
type Entry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Section is the text range owned by one heading: from the heading
// (inclusive) to the next heading of equal-or-higher level or end of
// document. Sections are the atomic unit for relevance scoring.
type Section struct {
	Document string
	Page     int
	Title    string
	BodyText string
}

// Result is the assembled view of one document.
type Result struct {
	Title    string
	Outline  []Entry
	Sections []Section
}

// levelRank orders heading levels for section boundary checks.
func levelRank(level heading.Level) int {
	switch level {
	case heading.LevelH1:
		return 1
	case heading.LevelH2:
		return 2
	case heading.LevelH3:
		return 3
	}
	return 4
}

// Assemble walks classified lines in document order, emits the outline and
// builds section ranges. The title line is excluded from the outline array;
// adjacent duplicates (normalized text + page) collapse to one entry. Zero
// headings is a valid outcome.
func Assemble(docName string, classified []heading.Classified) Result {
	title := heading.SelectTitle(classified)
	res := Result{Title: title}

	type openSection struct {
		section Section
		rank    int
		body    strings.Builder
	}
	var open []*openSection
	var all []*openSection // start order
	titleSkipped := false

	closeDownTo := func(rank int) {
		for len(open) > 0 && open[len(open)-1].rank >= rank {
			open = open[:len(open)-1]
		}
	}

	var lastEntry *Entry
	for _, cl := range classified {
		switch cl.Level {
		case heading.LevelNoise:
			continue
		case heading.LevelBody:
			for _, s := range open {
				if s.body.Len() > 0 {
					s.body.WriteByte(' ')
				}
				s.body.WriteString(cl.Line.Text)
			}
			continue
		}

		// The line selected as title stays out of the outline.
		if !titleSkipped && cl.TitleBand && cl.Line.Text == title {
			titleSkipped = true
			continue
		}

		// Collapse adjacent duplicates.
		if lastEntry != nil && lastEntry.Page == cl.Line.Page &&
			normalizeEntry(lastEntry.Text) == normalizeEntry(cl.Line.Text) {
			continue
		}

		rank := levelRank(cl.Level)
		closeDownTo(rank)

		entry := Entry{Level: string(cl.Level), Text: cl.Line.Text, Page: cl.Line.Page}
		res.Outline = append(res.Outline, entry)
		lastEntry = &res.Outline[len(res.Outline)-1]

		sec := &openSection{
			section: Section{
				Document: docName,
				Page:     cl.Line.Page,
				Title:    cl.Line.Text,
			},
			rank: rank,
		}
		open = append(open, sec)
		all = append(all, sec)
	}

	for _, sec := range all {
		sec.section.BodyText = strings.TrimSpace(sec.body.String())
		res.Sections = append(res.Sections, sec.section)
	}

	return res
}

func normalizeEntry(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
