package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/doclens/doclens/internal/heading"
	"github.com/doclens/doclens/internal/layout"
	"github.com/doclens/doclens/internal/outline"
	"github.com/doclens/doclens/internal/relevance"
	"github.com/doclens/doclens/internal/span"
)

// Result is the per-document pipeline outcome. A document that times out or
// has no extractable text still produces a Result with an empty outline;
// failures never propagate across sibling documents.
type Result struct {
	Document     string
	Outline      outline.Result
	SpansDropped int
	Duration     time.Duration
	TimedOut     bool
	Empty        bool
}

// Analysis bundles the per-document results with the cross-document
// relevance ranking built over their combined sections.
type Analysis struct {
	Documents []Result
	Ranking   relevance.Analysis
}

// Runner executes the extraction pipeline over documents with bounded
// concurrency and a per-document time budget.
type Runner struct {
	log        *slog.Logger
	stats      *Stats
	sem        chan struct{}
	docTimeout time.Duration
}

// NewRunner builds a runner with the given worker bound and per-document
// timeout. workers <= 0 falls back to a single worker.
func NewRunner(workers int, docTimeout time.Duration, stats *Stats, log *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if docTimeout <= 0 {
		docTimeout = 10 * time.Second
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Runner{
		log:        log,
		stats:      stats,
		sem:        make(chan struct{}, workers),
		docTimeout: docTimeout,
	}
}

// Stats exposes the runner's latency tracker for the stats endpoint.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// Process runs the extraction pipeline for one document: normalize spans,
// build the layout profile, merge lines, classify headings, assemble the
// outline. An empty document yields an empty outline, not an error.
func (r *Runner) Process(ctx context.Context, doc *span.Document) Result {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return Result{Document: doc.Name, TimedOut: true}
	}
	defer func() { <-r.sem }()

	start := time.Now()
	done := make(chan Result, 1)
	go func() {
		done <- extractOutline(doc)
	}()

	timer := time.NewTimer(r.docTimeout)
	defer timer.Stop()

	var res Result
	select {
	case res = <-done:
	case <-timer.C:
		res = Result{Document: doc.Name, TimedOut: true}
	case <-ctx.Done():
		res = Result{Document: doc.Name, TimedOut: true}
	}
	res.Duration = time.Since(start)

	switch {
	case res.TimedOut:
		r.stats.RecordTimeout()
		r.log.Warn("document processing timed out",
			"document", doc.Name,
			"timeout", r.docTimeout)
	case res.Empty:
		r.stats.RecordEmpty()
		r.stats.Record(res.Duration)
		r.log.Info("document has no extractable text", "document", doc.Name)
	default:
		r.stats.Record(res.Duration)
		r.log.Info("document processed",
			"document", doc.Name,
			"pages", doc.PageCount,
			"outline_entries", len(res.Outline.Outline),
			"sections", len(res.Outline.Sections),
			"spans_dropped", res.SpansDropped,
			"duration_ms", res.Duration.Milliseconds())
	}
	return res
}

// ProcessAll fans documents out across the worker pool and joins before
// returning. Results keep input order.
func (r *Runner) ProcessAll(ctx context.Context, docs []*span.Document) []Result {
	results := make([]Result, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc *span.Document) {
			defer wg.Done()
			results[i] = r.Process(ctx, doc)
		}(i, doc)
	}
	wg.Wait()
	return results
}

// Analyze runs the pipeline over every document, then ranks the combined
// sections against the persona and job. Ranking starts only after all
// documents have finished or timed out.
func (r *Runner) Analyze(ctx context.Context, docs []*span.Document, persona, job string, cfg relevance.Config) Analysis {
	results := r.ProcessAll(ctx, docs)

	var sections []outline.Section
	for _, res := range results {
		sections = append(sections, res.Outline.Sections...)
	}

	return Analysis{
		Documents: results,
		Ranking:   relevance.Rank(sections, persona, job, cfg),
	}
}

// extractOutline is the synchronous per-document pipeline.
func extractOutline(doc *span.Document) Result {
	res := Result{Document: doc.Name}

	spans, dropped := span.Normalize(doc.Spans)
	res.SpansDropped = dropped

	norm := *doc
	norm.Spans = spans
	profile, err := layout.Build(&norm)
	if err != nil {
		if errors.Is(err, layout.ErrEmptyDocument) {
			res.Empty = true
		}
		return res
	}

	lines := layout.MergeLines(spans)
	classified := heading.NewClassifier().Classify(lines, profile)
	res.Outline = outline.Assemble(doc.Name, classified)
	return res
}
