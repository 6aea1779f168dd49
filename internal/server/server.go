package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/velowise/velowise-api/internal/config"
	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/domain"
	"github.com/velowise/velowise-api/internal/engine"
)

// Server exposes the engine's four operations over HTTP.
type Server struct {
	engine       *engine.Engine
	defaultLimit int
	maxLimit     int
}

// New initializes the API server around an engine instance.
func New(eng *engine.Engine, cfg *config.Config) *Server {
	return &Server{
		engine:       eng,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

// RegisterRoutes registers all API endpoints with a new ServeMux.
func (s *Server) RegisterRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/users/{user_id}/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/v1/items/{item_id}/similar", s.handleSimilar)
	mux.HandleFunc("POST /api/v1/intent", s.handleIntent)
	mux.HandleFunc("DELETE /api/v1/cache", s.handleClearCache)
	mux.HandleFunc("DELETE /api/v1/users/{user_id}/cache", s.handleInvalidateUser)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

type resultsResponse struct {
	Results []domain.ScoredResult `json:"results"`
	Count   int                   `json:"count"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	limit := s.parseLimit(r)

	results, err := s.engine.Recommend(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[Server] Recommend failed for %s: %v", userID, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Count: len(results)})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("item_id")
	limit := s.parseLimit(r)

	results, err := s.engine.Similar(r.Context(), itemID, limit)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		log.Printf("[Server] Similar failed for %s: %v", itemID, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Count: len(results)})
}

type intentRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Query field is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.engine.ClassifyIntent(req.Query))
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.engine.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidateUser(w http.ResponseWriter, r *http.Request) {
	s.engine.InvalidateUser(r.PathValue("user_id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseLimit reads ?limit=N, clamped to [1, maxLimit], defaulting when
// absent or malformed.
func (s *Server) parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}
