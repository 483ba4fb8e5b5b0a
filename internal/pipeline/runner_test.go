package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/doclens/doclens/internal/relevance"
	"github.com/doclens/doclens/internal/span"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(2, 5*time.Second, NewStats(time.Hour), log)
}

func markdownDoc(t *testing.T, name, src string) *span.Document {
	t.Helper()
	doc, err := (&span.MarkdownSource{}).Extract(strings.NewReader(src), name)
	if err != nil {
		t.Fatalf("failed to build document: %v", err)
	}
	return doc
}

const guideMarkdown = `# User Guide

Welcome to the product documentation.

## Installation

Download the installer and run it.

## Configuration

Edit the config file to set the port.
`

func TestRunnerProcess_Outline(t *testing.T) {
	r := testRunner(t)
	res := r.Process(context.Background(), markdownDoc(t, "guide.md", guideMarkdown))

	if res.TimedOut || res.Empty {
		t.Fatalf("unexpected result flags: %+v", res)
	}
	if res.Outline.Title != "User Guide" {
		t.Errorf("expected title %q, got %q", "User Guide", res.Outline.Title)
	}
	if len(res.Outline.Outline) != 2 {
		t.Fatalf("expected 2 outline entries, got %d: %+v", len(res.Outline.Outline), res.Outline.Outline)
	}
	if res.Outline.Outline[0].Text != "Installation" || res.Outline.Outline[1].Text != "Configuration" {
		t.Errorf("unexpected outline: %+v", res.Outline.Outline)
	}

	snap := r.Stats().Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", snap.Count)
	}
}

func TestRunnerProcess_EmptyDocument(t *testing.T) {
	r := testRunner(t)
	res := r.Process(context.Background(), &span.Document{Name: "blank.pdf"})

	if !res.Empty {
		t.Fatal("expected Empty result for a document with no spans")
	}
	if res.Outline.Title != "" || len(res.Outline.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", res.Outline)
	}
	if r.Stats().Snapshot().Empty != 1 {
		t.Errorf("expected empty counter to increment")
	}
}

func TestRunnerProcessAll_KeepsInputOrder(t *testing.T) {
	r := testRunner(t)
	docs := []*span.Document{
		markdownDoc(t, "one.md", guideMarkdown),
		{Name: "two.pdf"},
		markdownDoc(t, "three.md", guideMarkdown),
	}

	results := r.ProcessAll(context.Background(), docs)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"one.md", "two.pdf", "three.md"} {
		if results[i].Document != want {
			t.Errorf("result %d: expected document %q, got %q", i, want, results[i].Document)
		}
	}
	if !results[1].Empty {
		t.Error("expected empty middle document not to affect siblings")
	}
	if results[0].Outline.Title != "User Guide" || results[2].Outline.Title != "User Guide" {
		t.Error("expected sibling documents to process normally")
	}
}

func TestRunnerProcess_NumberedHeadingInPagedDocument(t *testing.T) {
	doc := &span.Document{
		Name:       "survey.pdf",
		PageCount:  3,
		PageHeight: 792,
		Spans: []span.TextSpan{
			{Text: "1. Introduction", FontSize: 13, Bold: true, Page: 1,
				BBox: span.BBox{X0: 72, Y0: 700, X1: 200, Y1: 713}},
			{Text: "This report presents the findings of the annual survey.", FontSize: 10, Page: 1,
				BBox: span.BBox{X0: 72, Y0: 660, X1: 420, Y1: 670}},
			{Text: "Survey methodology involved stratified sampling.", FontSize: 10, Page: 2,
				BBox: span.BBox{X0: 72, Y0: 660, X1: 400, Y1: 670}},
			{Text: "Results indicate steady growth.", FontSize: 10, Page: 3,
				BBox: span.BBox{X0: 72, Y0: 660, X1: 300, Y1: 670}},
		},
	}

	r := testRunner(t)
	res := r.Process(context.Background(), doc)

	if len(res.Outline.Outline) != 1 {
		t.Fatalf("expected 1 outline entry, got %d: %+v", len(res.Outline.Outline), res.Outline.Outline)
	}
	entry := res.Outline.Outline[0]
	if entry.Level != "H1" || entry.Text != "1. Introduction" || entry.Page != 1 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if len(res.Outline.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Outline.Sections))
	}
	if res.Outline.Sections[0].BodyText == "" {
		t.Error("expected section body text to accumulate across pages")
	}
}

func TestRunnerAnalyze_RanksAcrossDocuments(t *testing.T) {
	const chemMarkdown = `# Chemistry Notes

General notes.

## Reaction Mechanisms

Key reactions in organic chemistry follow curved arrow mechanisms. Students summarize each step.
`
	const cookMarkdown = `# Cooking Notes

General notes.

## Pasta

Boil water and add salt.
`
	r := testRunner(t)
	docs := []*span.Document{
		markdownDoc(t, "chem.md", chemMarkdown),
		markdownDoc(t, "cook.md", cookMarkdown),
	}

	analysis := r.Analyze(context.Background(), docs, "Chemistry Student", "Summarize Key Reactions", relevance.DefaultConfig())

	if len(analysis.Documents) != 2 {
		t.Fatalf("expected 2 document results, got %d", len(analysis.Documents))
	}
	if len(analysis.Ranking.Ranked) != 2 {
		t.Fatalf("expected 2 ranked sections, got %d: %+v", len(analysis.Ranking.Ranked), analysis.Ranking.Ranked)
	}

	top := analysis.Ranking.Ranked[0]
	if top.Document != "chem.md" || top.Title != "Reaction Mechanisms" {
		t.Errorf("expected chem.md Reaction Mechanisms first, got %+v", top)
	}
	if top.ImportanceRank != 1 {
		t.Errorf("expected importance rank 1, got %d", top.ImportanceRank)
	}
	if top.Score <= 0 {
		t.Errorf("expected positive score, got %v", top.Score)
	}
}
