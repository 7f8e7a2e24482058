package api

import (
	"net/http"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/monitor"
)

func (s *Server) handleListBackends(w http.ResponseWriter, _ *http.Request) {
	backends := s.registry.List()
	s.writeJSON(w, http.StatusOK, backends)
}

// handleListResources reports the availability of every remote resource.
// Without a monitor each reporting backend is queried live.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	if s.monitor != nil {
		s.writeJSON(w, http.StatusOK, s.monitor.Snapshots())
		return
	}

	snaps := []monitor.Snapshot{}
	s.registry.Each(func(name string, b backend.Backend) {
		reporter, ok := b.(backend.ResourceReporter)
		if !ok {
			return
		}
		snap := monitor.Snapshot{
			Backend:   name,
			Resource:  b.Capabilities().Resource,
			CheckedAt: time.Now().UTC(),
		}
		info, err := reporter.Resource(r.Context())
		if err != nil {
			s.logger.Warn("query resource", "backend", name, "error", err)
			snap.Error = err.Error()
		} else {
			snap.Status = info.Status
			snap.AvailableQubits = info.AvailableQubits
			snap.Online = info.Online()
		}
		snaps = append(snaps, snap)
	})
	s.writeJSON(w, http.StatusOK, snaps)
}
