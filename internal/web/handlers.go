package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness and upload slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"uploads": s.service.LimiterStatus(),
	})
}

// handleListSchemas returns every importable schema with its headers.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Schemas())
}

// handleUploadHistory returns recent uploads, newest first.
// The limit query parameter is clamped to the configured maximum.
func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
				Error:   "limit must be a number",
				Message: "limit must be a number",
				Code:    "VAL001",
			})
			return
		}
		limit = n
	}

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// handleRollbackUpload deletes every row stored by one upload.
func (s *Server) handleRollbackUpload(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Rollback(withClient(r), chi.URLParam(r, "uploadID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
