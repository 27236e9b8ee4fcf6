// Package server exposes the advisor over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stock-news-advisor/internal/advisor"
	"stock-news-advisor/internal/quota"
	"stock-news-advisor/internal/types"
)

// Server routes prediction requests to the pipeline and batch runs to the
// feed service.
type Server struct {
	pipeline *advisor.Pipeline
	service  *advisor.Service
	tracker  *quota.Tracker
}

// New wires the server's handlers.
func New(pipeline *advisor.Pipeline, service *advisor.Service, tracker *quota.Tracker) *Server {
	return &Server{pipeline: pipeline, service: service, tracker: tracker}
}

// Handler returns the HTTP handler with middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/predict", s.handlePredict)
	r.Get("/start", s.handleStart)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type predictRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	lastMinute, today := s.tracker.Usage()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "ok",
		"requests_last_minute": lastMinute,
		"requests_today":       today,
	})
}

// handlePredict analyzes a single article supplied in the request body.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is required"})
		return
	}

	p := s.pipeline.Analyze(r.Context(), types.Article{
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	})
	writeJSON(w, http.StatusOK, p)
}

// handleStart runs a full feed pass and returns the predictions.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.service.ProcessFeed(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(predictions),
		"predictions": predictions,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// NewHTTPServer builds an http.Server with sane timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
	}
}
