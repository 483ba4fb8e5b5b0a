package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"pipeline": s.runner.Stats().Snapshot(),
		"limits": map[string]any{
			"max_upload_bytes": s.cfg.MaxUploadBytes,
			"max_pages":        s.cfg.MaxPages,
			"max_batch_files":  s.cfg.MaxBatchFiles,
			"doc_timeout_ms":   s.cfg.DocTimeout.Milliseconds(),
		},
	})
}
