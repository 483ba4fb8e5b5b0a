package layout

import (
	"errors"
	"math"
	"sort"

	"github.com/doclens/doclens/internal/span"
)

// ErrEmptyDocument is returned when a document yields zero extractable
// spans. Callers recover by substituting an empty outline.
var ErrEmptyDocument = errors.New("document has no extractable spans")

// Profile holds document-wide layout statistics used to calibrate heading
// thresholds. Derived once per document.
type Profile struct {
	// BodyFontSize is the dominant font size: the mode weighted by summed
	// character count, so short large-font titles cannot skew the baseline.
	BodyFontSize float64

	// Percentiles of font size across spans, keyed by percentile (75/90/95).
	Percentiles map[int]float64

	PageCount int

	// PageHeight is the physical page height, or 0 when the source could
	// not determine it (margin-based suppression is skipped in that case).
	PageHeight float64
}

// Build computes the layout profile for one document.
func Build(doc *span.Document) (Profile, error) {
	if len(doc.Spans) == 0 {
		return Profile{}, ErrEmptyDocument
	}

	charWeight := make(map[float64]int)
	sizes := make([]float64, 0, len(doc.Spans))
	maxPage := doc.PageCount

	for _, s := range doc.Spans {
		size := roundSize(s.FontSize)
		charWeight[size] += len(s.Text)
		sizes = append(sizes, size)
		if s.Page > maxPage {
			maxPage = s.Page
		}
	}

	body := 0.0
	bodyWeight := -1
	for size, w := range charWeight {
		if w > bodyWeight || (w == bodyWeight && size < body) {
			body = size
			bodyWeight = w
		}
	}

	sort.Float64s(sizes)

	return Profile{
		BodyFontSize: body,
		Percentiles: map[int]float64{
			75: percentile(sizes, 75),
			90: percentile(sizes, 90),
			95: percentile(sizes, 95),
		},
		PageCount:  maxPage,
		PageHeight: doc.PageHeight,
	}, nil
}

// roundSize buckets font sizes to 0.1pt so near-identical sizes share a mode.
func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// percentile linearly interpolates over a sorted slice.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
