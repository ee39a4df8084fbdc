// Package api exposes the simulation over HTTP. The core model is a
// strictly single-caller object; the server serializes all access to it
// behind one mutex.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/amoebasim/internal/persistence"
	"github.com/talgya/amoebasim/internal/report"
	"github.com/talgya/amoebasim/internal/sim"
)

// MaxRunSteps caps a single run request; a caller wanting more issues
// several requests rather than holding the model lock indefinitely.
const MaxRunSteps = 10000

// Server serves the simulation over HTTP.
type Server struct {
	Addr string
	DB   *persistence.DB // optional; nil disables the rows endpoint

	mu    sync.Mutex
	model *sim.Model
	seed  int64
	runID string
}

// NewServer creates a server around the given model.
func NewServer(addr string, model *sim.Model, seed int64, db *persistence.DB) *Server {
	return &Server{Addr: addr, DB: db, model: model, seed: seed}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	renderLimiter := NewLimiter(60, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/init", s.handleInit)
	mux.HandleFunc("POST /api/v1/run", s.handleRun)
	mux.HandleFunc("POST /api/v1/step", s.handleStep)
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/snapshot.png", limitMiddleware(renderLimiter, s.handleSnapshotPNG))
	mux.HandleFunc("GET /api/v1/rows", s.handleRows)
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	slog.Info("HTTP API starting", "addr", s.Addr)
	go func() {
		if err := http.ListenAndServe(s.Addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// handleInit (re)initializes the model at the requested month, replacing a
// prior run and purging its stored rows.
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.model.Initialize(req.Month); err != nil {
		writeModelError(w, err)
		return
	}
	s.runID = uuid.NewString()

	if s.DB != nil {
		if err := s.DB.BeginRun(s.runID, req.Month, s.seed); err != nil {
			slog.Error("begin run failed", "error", err)
		}
	}

	writeJSON(w, map[string]any{
		"message": fmt.Sprintf("Model initialized with month: %d", req.Month),
		"run_id":  s.runID,
	})
}

// handleRun advances the model n steps, returning the rows, a run summary,
// and the environment chart as base64 PNG.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Steps int `json:"steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Steps > MaxRunSteps {
		http.Error(w, fmt.Sprintf("steps must be at most %d", MaxRunSteps), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.model.Run(req.Steps)
	if err != nil {
		writeModelError(w, err)
		return
	}

	if s.DB != nil {
		if err := s.DB.SaveRows(s.runID, rows); err != nil {
			slog.Error("save rows failed", "error", err)
		}
	}

	resp := map[string]any{
		"rows":    rows,
		"summary": report.Summarize(rows),
	}
	if graph, err := report.EnvironmentChartBase64(rows); err == nil {
		resp["graph"] = graph
	} else {
		slog.Debug("chart skipped", "error", err)
	}
	writeJSON(w, resp)
}

// handleStep advances the model exactly one step.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.model.Step()
	if err != nil {
		writeModelError(w, err)
		return
	}
	if s.DB != nil {
		if err := s.DB.SaveRows(s.runID, []sim.Row{row}); err != nil {
			slog.Error("save row failed", "error", err)
		}
	}
	writeJSON(w, row)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"initialized": s.model.Initialized(),
		"run_id":      s.runID,
		"population":  s.model.Population(),
	}
	if e := s.model.Env(); e != nil {
		status["step"] = e.StepCount()
		status["month"] = e.Month()
		status["temperature"] = e.Temperature
		status["water_quality"] = e.WaterQuality
		status["favorable"] = e.Favorable()
	}
	writeJSON(w, status)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.model.Snapshot()
	s.mu.Unlock()

	writeJSON(w, snap)
}

func (s *Server) handleSnapshotPNG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.model.Snapshot()
	s.mu.Unlock()

	pngBytes, err := report.SnapshotPNG(snap)
	if err != nil {
		slog.Error("snapshot render failed", "error", err)
		http.Error(w, "snapshot render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(pngBytes)
}

// handleRows serves persisted rows of the current run from the database.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	fromStep := 0
	toStep := 1<<31 - 1
	limit := 100

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.Atoi(f); err == nil {
			fromStep = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.Atoi(t); err == nil {
			toStep = v
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 10000 {
			limit = v
		}
	}

	s.mu.Lock()
	runID := s.runID
	s.mu.Unlock()

	rows, err := s.DB.LoadRows(runID, fromStep, toStep, limit)
	if err != nil {
		slog.Error("rows query failed", "error", err)
		// Table may simply be empty before the first run.
		writeJSON(w, []sim.Row{})
		return
	}
	if rows == nil {
		rows = []sim.Row{}
	}
	writeJSON(w, rows)
}

// writeModelError maps core errors to HTTP status codes.
func writeModelError(w http.ResponseWriter, err error) {
	if errors.Is(err, sim.ErrInvalidInput) || errors.Is(err, sim.ErrNotInitialized) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
