package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xtding233/pull-estimator/internal/preset"
)

// Server exposes the estimator over JSON/HTTP. Simulation runs are
// single-flight: a run in progress makes further /simulate and /budget
// calls answer 409 instead of queueing (the engine itself never
// serializes callers, so the boundary must).
type Server struct {
	presets *preset.Loader
	log     *slog.Logger
	busy    sync.Mutex
}

func NewServer(presets *preset.Loader, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{presets: presets, log: log}
}

// Router wires the chi routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/budget", s.handleBudget)
	})
	return r
}

type errResp struct {
	Err string `json:"err"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Err: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names, err := s.presets.List()
	if err != nil {
		s.log.Error("list presets", "err", err)
		writeErr(w, http.StatusInternalServerError, "cannot list presets")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"presets": names})
}
