package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/engine"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/model"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodySize      = 1 << 20 // 1 MB
)

// createRunRequest is the body for POST /v1/runs: a circuit document plus the
// backend to run it on. JSON and YAML bodies are accepted.
type createRunRequest struct {
	Backend          string `json:"backend" yaml:"backend"`
	circuit.Document `yaml:",inline"`
}

// listRunsResponse wraps the paginated list response.
type listRunsResponse struct {
	Runs   []*model.Run `json:"runs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// decodeRunRequest reads a circuit document body and converts it into a
// measurement.
func decodeRunRequest(w http.ResponseWriter, r *http.Request) (createRunRequest, circuit.Measurement, error) {
	var req createRunRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return req, circuit.Measurement{}, fmt.Errorf("read body: %w", err)
	}
	if err := yaml.Unmarshal(body, &req); err != nil {
		return req, circuit.Measurement{}, fmt.Errorf("invalid circuit document: %w", err)
	}
	m, err := req.Document.Measurement()
	if err != nil {
		return req, circuit.Measurement{}, err
	}
	return req, m, nil
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	req, m, err := decodeRunRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run := &model.Run{Backend: req.Backend}
	if err := s.engine.Submit(r.Context(), run, m); err != nil {
		if errors.Is(err, backend.ErrBackendNotFound) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("submit run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to submit run")
		return
	}
	runsAccepted.WithLabelValues(run.Backend).Inc()

	s.writeJSON(w, http.StatusAccepted, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	runs, total, err := s.store.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	if runs == nil {
		runs = []*model.Run{}
	}

	s.writeJSON(w, http.StatusOK, listRunsResponse{
		Runs:   runs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// handleCancelRun stops an executing run. The engine records the final
// "cancelled" status once the backend has returned.
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run for cancel", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	if err := s.engine.Cancel(id); err != nil {
		if errors.Is(err, engine.ErrRunNotActive) {
			s.writeError(w, http.StatusConflict, fmt.Sprintf("run is %s", run.Status))
			return
		}
		s.logger.Error("cancel run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to cancel run")
		return
	}

	s.writeJSON(w, http.StatusAccepted, run)
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
