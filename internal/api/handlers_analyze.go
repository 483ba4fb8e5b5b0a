package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/doclens/doclens/internal/pipeline"
	"github.com/doclens/doclens/internal/relevance"
	"github.com/doclens/doclens/internal/report"
	"github.com/doclens/doclens/internal/span"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxFiles := int64(s.cfg.MaxBatchFiles)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*maxFiles+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	persona := r.FormValue("persona")
	if persona == "" {
		jsonError(w, "persona is required", http.StatusBadRequest)
		return
	}
	job := r.FormValue("job_to_be_done")
	if job == "" {
		jsonError(w, "job_to_be_done is required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, "too many files: max "+strconv.Itoa(s.cfg.MaxBatchFiles), http.StatusRequestEntityTooLarge)
		return
	}

	cfg := relevance.Config{
		PersonaWeight:  s.cfg.PersonaWeight,
		JobWeight:      s.cfg.JobWeight,
		BonusWeight:    s.cfg.BonusWeight,
		BonusThreshold: s.cfg.BonusThreshold,
		TopK:           s.cfg.TopK,
		ExcerptChars:   s.cfg.ExcerptChars,
	}
	if v := r.FormValue("top_k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopK = n
		}
	}

	runID := pipeline.NewRunID()
	log := s.log.With("run_id", runID)

	docs := make([]*span.Document, 0, len(files))
	names := make([]string, 0, len(files))
	for _, fh := range files {
		doc, err := s.extractDocument(fh, log)
		if err != nil {
			jsonError(w, sanitizeFilename(fh.Filename)+": "+err.Error(), http.StatusBadRequest)
			return
		}
		docs = append(docs, doc)
		names = append(names, doc.Name)
	}

	analysis := s.runner.Analyze(r.Context(), docs, persona, job, cfg)
	log.Info("analysis complete",
		"documents", len(docs),
		"sections", len(analysis.Ranking.Ranked),
		"excerpts", len(analysis.Ranking.Excerpts))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report.BuildAnalysis(names, persona, job, analysis.Ranking, time.Now()))
}
