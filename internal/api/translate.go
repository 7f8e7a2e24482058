package api

import (
	"errors"
	"net/http"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
)

// translateResponse carries the AQT submit request each circuit of the
// document would produce, in circuit order.
type translateResponse struct {
	Backend      string              `json:"backend"`
	NumberQubits int                 `json:"number_qubits"`
	Submissions  []aqt.SubmitRequest `json:"submissions"`
}

// handleTranslate converts a circuit document into AQT submit requests
// without contacting the remote service. The qubit count comes from the
// number_qubits query parameter or from the named backend.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	req, m, err := decodeRunRequest(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := translateResponse{Backend: req.Backend}
	if resp.Backend == "" {
		resp.Backend = s.registry.DefaultName()
	}
	resp.NumberQubits = parseIntQuery(r, "number_qubits", 0)
	if resp.NumberQubits <= 0 {
		b, err := s.registry.Resolve(resp.Backend)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp.NumberQubits = b.Capabilities().NumberQubits
	}

	for _, c := range m.Expanded() {
		sub, err := aqt.Submission(resp.NumberQubits, c)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, backend.ErrOperationNotSupported) {
				status = http.StatusUnprocessableEntity
			}
			s.writeError(w, status, err.Error())
			return
		}
		resp.Submissions = append(resp.Submissions, sub)
	}

	s.writeJSON(w, http.StatusOK, resp)
}
