package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/skim/internal/app"
	"github.com/raysh454/skim/internal/history"
	"github.com/raysh454/skim/internal/interfaces"
	"github.com/raysh454/skim/internal/logging"
	"github.com/raysh454/skim/internal/webclient"
)

// Server is the HTTP + WebSocket API surface for skim.
type Server struct {
	cfg      Config
	runner   *app.Runner
	store    *history.Store
	wc       interfaces.WebClient
	router   chi.Router
	upgrader websocket.Upgrader
	logger   interfaces.Logger
}

// NewServer creates a new Server with its own Runner and history store.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = cfg.AppConfig.ListenAddr
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	storagePath, err := cfg.AppConfig.ExpandStoragePath()
	if err != nil {
		return nil, fmt.Errorf("expanding storage path: %w", err)
	}

	store, err := history.Open(storagePath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}

	webclient.RegisterDefaultBackends()
	wc, err := webclient.New(cfg.AppConfig.WebClient, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("constructing webclient: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		runner: app.NewRunner(cfg.AppConfig, store, wc, logger),
		store:  store,
		wc:     wc,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/pipelines/passes", s.optionsHandler("GET"))
	r.Options("/pipelines/astros", s.optionsHandler("GET"))
	r.Options("/pipelines/table", s.optionsHandler("GET"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET"))
	r.Options("/runs", s.optionsHandler("GET"))
	r.Options("/runs/{runID}", s.optionsHandler("GET"))
	r.Options("/runs/{runID}/diff/{headID}", s.optionsHandler("GET"))

	// Pipelines, run synchronously: one request, one fetch, one result.
	r.Get("/pipelines/passes", s.handleRunPasses)
	r.Get("/pipelines/astros", s.handleRunAstros)
	r.Get("/pipelines/table", s.handleRunTable)

	// In-memory job registry for this process
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)

	// Run history
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}", s.handleGetRun)
	r.Get("/runs/{runID}/diff/{headID}", s.handleDiffRuns)

	// WebSockets for run progress
	r.Get("/ws/pipelines/passes", s.handlePassesWS)
	r.Get("/ws/pipelines/astros", s.handleAstrosWS)
	r.Get("/ws/pipelines/table", s.handleTableWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []interfaces.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, interfaces.Field{Key: "query", Value: q})
	}
	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the webclient and the history store.
func (s *Server) Close() {
	if s.wc != nil {
		_ = s.wc.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// waitJob drains a job's event stream and returns its final result, if any.
func waitJob(job *app.RunJob) any {
	var result any
	for ev := range job.Events {
		if ev.Type == app.RunEventResult {
			result = ev.Result
		}
	}
	return result
}

func parseCoordinates(r *http.Request) (lat, lon float64, err error) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, fmt.Errorf("lat and lon query parameters are required")
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat %q", latStr)
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lon %q", lonStr)
	}
	return lat, lon, nil
}

// --- HTTP handlers ---

func (s *Server) respondForJob(w http.ResponseWriter, job *app.RunJob) {
	result := waitJob(job)
	snap := job.Snapshot()
	if snap.Status == app.RunFailed {
		s.logger.Warn("pipeline run failed",
			interfaces.Field{Key: "run_id", Value: snap.ID},
			interfaces.Field{Key: "kind", Value: snap.Kind},
			interfaces.Field{Key: "error", Value: snap.Error})
		writeJSON(w, http.StatusBadGateway, runResponse{Job: &snap})
		return
	}
	s.logger.Info("pipeline run finished",
		interfaces.Field{Key: "run_id", Value: snap.ID},
		interfaces.Field{Key: "kind", Value: snap.Kind})
	writeJSON(w, http.StatusOK, runResponse{Job: &snap, Result: result})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.ListJobs())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, ok := s.runner.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("job %q not found", jobID))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleRunPasses(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondForJob(w, s.runner.StartPassesRun(r.Context(), lat, lon))
}

func (s *Server) handleRunAstros(w http.ResponseWriter, r *http.Request) {
	s.respondForJob(w, s.runner.StartAstrosRun(r.Context()))
}

func (s *Server) handleRunTable(w http.ResponseWriter, r *http.Request) {
	s.respondForJob(w, s.runner.StartTableRun(r.Context()))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.store.ListRuns(r.Context(), kind, limit)
	if err != nil {
		s.logger.Warn("listing runs", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDiffRuns(w http.ResponseWriter, r *http.Request) {
	baseID := chi.URLParam(r, "runID")
	headID := chi.URLParam(r, "headID")

	diff, err := s.store.DiffRuns(r.Context(), baseID, headID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

// --- WebSockets ---

func (s *Server) streamJob(w http.ResponseWriter, r *http.Request, start func() *app.RunJob) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", interfaces.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job := start()
	s.logger.Info("started pipeline run",
		interfaces.Field{Key: "run_id", Value: job.ID},
		interfaces.Field{Key: "kind", Value: job.Kind})
	// The run goroutine is already updating the job; serialize a copy.
	snap := job.Snapshot()
	_ = conn.WriteJSON(&snap)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Client disconnected; the single-shot run finishes on its own.
			return
		}
	}
}

func (s *Server) handlePassesWS(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.streamJob(w, r, func() *app.RunJob {
		return s.runner.StartPassesRun(r.Context(), lat, lon)
	})
}

func (s *Server) handleAstrosWS(w http.ResponseWriter, r *http.Request) {
	s.streamJob(w, r, func() *app.RunJob {
		return s.runner.StartAstrosRun(r.Context())
	})
}

func (s *Server) handleTableWS(w http.ResponseWriter, r *http.Request) {
	s.streamJob(w, r, func() *app.RunJob {
		return s.runner.StartTableRun(r.Context())
	})
}
