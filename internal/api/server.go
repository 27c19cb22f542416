// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/liveforge-ai/liveforge/internal/build"
	"github.com/liveforge-ai/liveforge/internal/common"
	"github.com/liveforge-ai/liveforge/internal/llm"
)

type Server struct {
	router   chi.Router
	store    *build.Store
	runner   *build.Runner
	provider llm.Provider
}

func NewServer(store *build.Store, runner *build.Runner, provider llm.Provider) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if runner == nil {
		return nil, fmt.Errorf("build runner required")
	}
	providerName := "unknown"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName, "records", len(store.List()))
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		runner:   runner,
		provider: provider,
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/build/live", s.handleLiveBuild)
	s.router.Get("/v1/builds", s.handleListBuilds)
	s.router.Get("/v1/builds/{id}", s.handleGetBuild)
	s.router.Get("/v1/stats", s.handleStats)
	s.router.Get("/v1/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
