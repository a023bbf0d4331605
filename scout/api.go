package scout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/seatwatch/mcda"
	"github.com/hazyhaar/seatwatch/prefs"
)

// Router builds the JSON API. The surface mirrors the MCP tools: both
// decode into the same service operations.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP mounts the service's routes on an existing router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/seats", s.handleSeats)
		r.Get("/status", s.handleStatus)
		r.Get("/weights", s.handleGetWeights)
		r.Put("/weights", s.handlePutWeights)
		r.Put("/filters", s.handlePutFilters)
		r.Post("/open", s.handleOpen)
		r.Post("/rescan", s.handleRescan)
		r.Post("/listings/click", s.handleClick)
		r.Post("/listings/highlight", s.handleHighlight)
	})
}

func (s *Service) handleSeats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"seats": s.Seats()})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Weights())
}

func (s *Service) handlePutWeights(w http.ResponseWriter, r *http.Request) {
	var weights mcda.Weights
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.SetWeights(r.Context(), weights); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"weights": weights, "seats": s.Seats()})
}

func (s *Service) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	var filters prefs.Filters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.SetFilters(r.Context(), filters); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"filters": filters, "seats": s.Seats()})
}

func (s *Service) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL    string `json:"url"`
		Vendor string `json:"vendor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	if err := s.Open(r.Context(), req.URL, req.Vendor); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Status())
}

func (s *Service) handleRescan(w http.ResponseWriter, r *http.Request) {
	// The scan outlives the request; the orchestrator's own guard makes
	// concurrent triggers harmless.
	go func() {
		if err := s.Scan(context.Background()); err != nil {
			s.logger.Warn("scout: scan failed", "error", err)
		}
	}()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "scanning"})
}

func (s *Service) handleClick(w http.ResponseWriter, r *http.Request) {
	key, ok := decodeKey(w, r)
	if !ok {
		return
	}
	if err := s.ClickListing(r.Context(), key); err != nil {
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "clicked"})
}

func (s *Service) handleHighlight(w http.ResponseWriter, r *http.Request) {
	key, ok := decodeKey(w, r)
	if !ok {
		return
	}
	if err := s.Highlight(r.Context(), key); err != nil {
		respondError(w, http.StatusConflict, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "highlighted"})
}

func decodeKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return "", false
	}
	if req.Key == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return "", false
	}
	return req.Key, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
