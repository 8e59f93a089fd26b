package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"time"

	"callscout/catalog"
	"callscout/config"
	"callscout/core"
	"callscout/insight"
)

// Server exposes the annotation oracle and the recording catalog over HTTP.
type Server struct {
	Provider insight.Provider
	Model    string
}

func New(provider insight.Provider, model string) *Server {
	return &Server{Provider: provider, Model: model}
}

// Routes registers all handlers on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate-insight", s.generateInsightHandler)
	mux.HandleFunc("/api/calls", s.callsHandler)
	mux.HandleFunc("/api/calls/", s.callHandler)
	mux.HandleFunc("/health", s.healthHandler)
}

// generateInsightHandler serves the annotation oracle. POST analyzes one
// statement; GET reports service health.
func (s *Server) generateInsightHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, _ := config.LoadConfig()
		core.WriteJSON(w, http.StatusOK, map[string]any{
			"status":           "healthy",
			"service":          "ai-insight-generator",
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
			"model":            s.Model,
			"apiKeyConfigured": cfg != nil && cfg.HasValidAPI(),
		})
	case http.MethodPost:
		s.handleGenerateInsight(w, r)
	default:
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req core.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CurrentSentence == "" || req.Timestamp == "" || req.SegmentID == "" {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: currentSentence, timestamp, segmentId",
		})
		return
	}

	ins, err := s.Provider.GenerateInsight(r.Context(), req)
	meta := core.ResponseMeta{
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		core.WriteJSON(w, http.StatusInternalServerError, core.APIResponse{
			Success: false,
			Error:   "Internal server error",
			Meta:    meta,
		})
		return
	}

	// Absence of an insight on success is the "no material commentary"
	// outcome, not an error.
	core.WriteJSON(w, http.StatusOK, core.APIResponse{
		Success: true,
		Insight: ins,
		Meta:    meta,
	})
}

func (s *Server) callsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	calls := catalog.EarningCalls
	switch catalog.Status(r.URL.Query().Get("status")) {
	case catalog.StatusLive:
		calls = catalog.LiveCalls()
	case catalog.StatusCompleted:
		calls = catalog.CompletedCalls()
	case catalog.StatusUpcoming:
		calls = catalog.UpcomingCalls()
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"calls": calls, "count": len(calls)})
}

func (s *Server) callHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/calls/")
	call, ok := catalog.GetCallByID(id)
	if !ok {
		core.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "call not found"})
		return
	}
	core.WriteJSON(w, http.StatusOK, call)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"go_version":    runtime.Version(),
		"num_goroutine": runtime.NumGoroutine(),
		"catalog_size":  len(catalog.EarningCalls),
	})
}
