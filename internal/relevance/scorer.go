package relevance

import (
	"math"
	"sort"
	"strings"

	"github.com/doclens/doclens/internal/outline"
)

// Config carries the scorer weights and output knobs. Passed explicitly so
// tests can vary thresholds without process-wide state.
type Config struct {
	PersonaWeight  float64
	JobWeight      float64
	BonusWeight    float64
	BonusThreshold int // distinct matches needed for the flat bonus
	TopK           int // sections that receive a refined-text excerpt
	ExcerptChars   int // target excerpt length
}

// DefaultConfig returns the production weights.
func DefaultConfig() Config {
	return Config{
		PersonaWeight:  0.3,
		JobWeight:      0.5,
		BonusWeight:    0.2,
		BonusThreshold: 3,
		TopK:           5,
		ExcerptChars:   500,
	}
}

// RankedSection is one scored section in the cross-document ranking.
type RankedSection struct {
	Document       string
	Page           int
	Title          string
	Score          float64
	ImportanceRank int
}

// Excerpt is the refined sub-section text for a top-ranked section.
type Excerpt struct {
	Document    string
	Page        int
	RefinedText string
}

// Analysis is the scorer's combined output.
type Analysis struct {
	Ranked   []RankedSection
	Excerpts []Excerpt
}

// Rank scores every section against the persona and job keyword sets,
// sorts descending by score with (document, page, title) tie-breaks, and
// assigns 1-10 importance ranks. Zero matches everywhere is a valid
// outcome, not an error.
func Rank(sections []outline.Section, persona, job string, cfg Config) Analysis {
	personaKw := Keywords(persona)
	jobKw := Keywords(job)

	ranked := make([]RankedSection, 0, len(sections))
	bodies := make([]string, 0, len(sections))
	for _, sec := range sections {
		ranked = append(ranked, RankedSection{
			Document: sec.Document,
			Page:     sec.Page,
			Title:    sec.Title,
			Score:    scoreSection(sec, personaKw, jobKw, cfg),
		})
		bodies = append(bodies, sec.BodyText)
	}

	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := ranked[order[a]], ranked[order[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		if ra.Document != rb.Document {
			return ra.Document < rb.Document
		}
		if ra.Page != rb.Page {
			return ra.Page < rb.Page
		}
		return ra.Title < rb.Title
	})

	out := Analysis{Ranked: make([]RankedSection, len(order))}
	sortedBodies := make([]string, len(order))
	for i, idx := range order {
		out.Ranked[i] = ranked[idx]
		sortedBodies[i] = bodies[idx]
	}
	assignRanks(out.Ranked)

	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultConfig().TopK
	}
	for i, rs := range out.Ranked {
		if len(out.Excerpts) >= topK {
			break
		}
		if sortedBodies[i] == "" {
			continue
		}
		out.Excerpts = append(out.Excerpts, Excerpt{
			Document:    rs.Document,
			Page:        rs.Page,
			RefinedText: refine(sortedBodies[i], cfg.ExcerptChars),
		})
	}

	return out
}

// scoreSection computes the weighted keyword-match score, discounted for
// body length and clamped to [0,1].
func scoreSection(sec outline.Section, personaKw, jobKw []string, cfg Config) float64 {
	tokens := tokenSet(sec.Title + " " + sec.BodyText)

	personaMatches := 0
	for _, kw := range personaKw {
		if tokens[kw] {
			personaMatches++
		}
	}
	jobMatches := 0
	for _, kw := range jobKw {
		if tokens[kw] {
			jobMatches++
		}
	}

	distinct := make(map[string]bool)
	for _, kw := range personaKw {
		if tokens[kw] {
			distinct[kw] = true
		}
	}
	for _, kw := range jobKw {
		if tokens[kw] {
			distinct[kw] = true
		}
	}

	score := cfg.PersonaWeight*float64(personaMatches) + cfg.JobWeight*float64(jobMatches)
	if cfg.BonusThreshold > 0 && len(distinct) >= cfg.BonusThreshold {
		score += cfg.BonusWeight
	}

	// Length discount: long sections accumulate matches by sheer size.
	score /= 1 + math.Log(1+float64(len(sec.BodyText))/500)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// assignRanks maps scores onto 1-10 importance ranks via equal-width
// buckets over the observed score range; rank 1 is the most important.
// When every score is equal, ranks follow the sorted position instead.
func assignRanks(ranked []RankedSection) {
	if len(ranked) == 0 {
		return
	}
	max := ranked[0].Score
	min := ranked[len(ranked)-1].Score

	if max == min {
		for i := range ranked {
			r := i + 1
			if r > 10 {
				r = 10
			}
			ranked[i].ImportanceRank = r
		}
		return
	}

	width := (max - min) / 10
	for i := range ranked {
		r := 1 + int((max-ranked[i].Score)/width)
		if r > 10 {
			r = 10
		}
		ranked[i].ImportanceRank = r
	}
}

// refine trims body text to roughly limit characters, preferring a sentence
// boundary and falling back to a word boundary.
func refine(body string, limit int) string {
	if limit <= 0 {
		limit = DefaultConfig().ExcerptChars
	}
	if len(body) <= limit {
		return body
	}

	cut := body[:limit]
	if i := lastSentenceEnd(cut); i >= limit/3 {
		return strings.TrimSpace(cut[:i+1])
	}
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		return strings.TrimSpace(cut[:i])
	}
	return strings.TrimSpace(cut)
}

func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 == len(s) || s[i+1] == ' ' {
			return i
		}
	}
	return -1
}
