package api

import (
	"net/http"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// Health states reported by GET /healthz.
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
)

type healthResponse struct {
	Status     string          `json:"status"`
	ActiveRuns int             `json:"active_runs"`
	Backends   []backendHealth `json:"backends"`
}

// backendHealth is one registered backend as seen by the resource monitor.
// Online and CheckedAt are unset until the monitor has probed the backend.
type backendHealth struct {
	Name      string     `json:"name"`
	Resource  string     `json:"resource"`
	Online    *bool      `json:"online,omitempty"`
	Error     string     `json:"error,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// handleHealthz reports the service as degraded when the monitor saw a
// backend offline or failed to probe it. The status code is always 200.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:     healthOK,
		ActiveRuns: s.engine.Active(),
		Backends:   []backendHealth{},
	}

	s.registry.Each(func(name string, b backend.Backend) {
		h := backendHealth{Name: name, Resource: b.Capabilities().Resource}
		if s.monitor != nil {
			if snap, ok := s.monitor.Snapshot(name); ok {
				online := snap.Online && snap.Error == ""
				checked := snap.CheckedAt
				h.Online, h.Error, h.CheckedAt = &online, snap.Error, &checked
				if !online {
					resp.Status = healthDegraded
				}
			}
		}
		resp.Backends = append(resp.Backends, h)
	})

	s.writeJSON(w, http.StatusOK, resp)
}
