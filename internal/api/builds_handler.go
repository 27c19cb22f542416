// File path: internal/api/builds_handler.go
package api

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/liveforge-ai/liveforge/internal/build"
)

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()
	resp := buildsResponse{Builds: records, Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case build.StatusSuccess:
			resp.Success++
		case build.StatusFailed:
			resp.Failed++
		default:
			resp.InProgress++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "build not found",
			"buildId": id,
		})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
