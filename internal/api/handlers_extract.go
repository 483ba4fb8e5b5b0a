package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/doclens/doclens/internal/pipeline"
	"github.com/doclens/doclens/internal/report"
	"github.com/doclens/doclens/internal/span"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !span.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	runID := pipeline.NewRunID()
	log := s.log.With("run_id", runID, "document", filename)

	source, err := span.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := source.Extract(bytes.NewReader(data), filename)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if doc.PageCount > s.cfg.MaxPages {
		jsonError(w, fmt.Sprintf("document exceeds max pages (%d)", s.cfg.MaxPages), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	res := s.runner.Process(r.Context(), doc)
	out := report.BuildOutline(res.Outline)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":   out.Title,
		"outline": out.Outline,
		"metadata": map[string]any{
			"filename":           filename,
			"pages":              doc.PageCount,
			"headings":           len(out.Outline),
			"timed_out":          res.TimedOut,
			"processing_time_ms": time.Since(start).Milliseconds(),
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// extractDocument parses one uploaded file into a span document. Parse
// failures yield an empty document so one bad file cannot sink a batch.
func (s *Server) extractDocument(fh *multipart.FileHeader, log *slog.Logger) (*span.Document, error) {
	filename := sanitizeFilename(fh.Filename)
	if !span.IsSupportedExtension(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	source, err := span.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := source.Extract(bytes.NewReader(data), filename)
	if err != nil {
		log.Warn("extraction failed", "document", filename, "error", err)
		return &span.Document{Name: filename}, nil
	}
	if doc.PageCount > s.cfg.MaxPages {
		return nil, fmt.Errorf("document exceeds max pages (%d)", s.cfg.MaxPages)
	}
	return doc, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
