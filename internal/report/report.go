package report

import (
	"time"

	"github.com/doclens/doclens/internal/outline"
	"github.com/doclens/doclens/internal/relevance"
)

// Outline is the public single-document result shape. The outline array is
// always present, empty rather than null for documents with no headings.
type Outline struct {
	Title   string          `json:"title"`
	Outline []outline.Entry `json:"outline"`
}

// BuildOutline converts an assembled document result to the wire shape.
func BuildOutline(res outline.Result) Outline {
	entries := res.Outline
	if entries == nil {
		entries = []outline.Entry{}
	}
	return Outline{Title: res.Title, Outline: entries}
}

// Metadata echoes the analysis inputs alongside the processing timestamp.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section in the analysis output.
type ExtractedSection struct {
	Document       string `json:"document"`
	PageNumber     int    `json:"page_number"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
}

// SubSection carries the refined excerpt for a top-ranked section.
type SubSection struct {
	Document    string `json:"document"`
	PageNumber  int    `json:"page_number"`
	RefinedText string `json:"refined_text"`
}

// Analysis is the public multi-document result shape.
type Analysis struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubSectionAnalysis []SubSection       `json:"sub_section_analysis"`
}

// BuildAnalysis converts a relevance ranking to the wire shape. The caller
// supplies the timestamp so output is reproducible in tests.
func BuildAnalysis(docNames []string, persona, job string, ranking relevance.Analysis, now time.Time) Analysis {
	if docNames == nil {
		docNames = []string{}
	}
	out := Analysis{
		Metadata: Metadata{
			InputDocuments:      docNames,
			Persona:             persona,
			JobToBeDone:         job,
			ProcessingTimestamp: now.UTC().Format(time.RFC3339),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(ranking.Ranked)),
		SubSectionAnalysis: make([]SubSection, 0, len(ranking.Excerpts)),
	}
	for _, rs := range ranking.Ranked {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       rs.Document,
			PageNumber:     rs.Page,
			SectionTitle:   rs.Title,
			ImportanceRank: rs.ImportanceRank,
		})
	}
	for _, ex := range ranking.Excerpts {
		out.SubSectionAnalysis = append(out.SubSectionAnalysis, SubSection{
			Document:    ex.Document,
			PageNumber:  ex.Page,
			RefinedText: ex.RefinedText,
		})
	}
	return out
}
