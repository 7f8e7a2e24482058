package backend

import (
	"context"
	"strings"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

// Backend is the interface that all evaluating backends must implement.
type Backend interface {
	// Execute runs a single circuit and returns the output registers it wrote.
	// The context carries cancellation for blocking network calls and waits.
	Execute(ctx context.Context, spec RunSpec) (Registers, error)

	// Capabilities reports the device and operation set behind this backend.
	Capabilities() Capabilities
}

// RunSpec describes one circuit execution.
type RunSpec struct {
	// ID identifies the run the circuit belongs to. It is only used for
	// events and logging.
	ID string `json:"id"`

	// Index is the position of the circuit inside a measurement.
	Index int `json:"index"`

	Circuit circuit.Circuit `json:"-"`

	// Events is an optional callback that receives every state transition of
	// the execution.
	Events func(Event) `json:"-"`
}

// Emit sends ev to the spec's event callback if one is set.
func (s RunSpec) Emit(ev Event) {
	if s.Events == nil {
		return
	}
	ev.RunID = s.ID
	ev.Index = s.Index
	s.Events(ev)
}

// Capabilities describes what a backend supports.
type Capabilities struct {
	Name                string   `json:"name"`
	Endpoint            string   `json:"endpoint"`
	Resource            string   `json:"resource"`
	NumberQubits        int      `json:"number_qubits"`
	SupportedOperations []string `json:"supported_operations"`
}

// ResourceInfo is the availability of a remote resource as reported by the
// provider.
type ResourceInfo struct {
	Resource        string `json:"resource"`
	Status          string `json:"status"`
	AvailableQubits int    `json:"available_qubits"`
}

// ResourceReporter is implemented by backends that can query the state of
// their remote resource.
type ResourceReporter interface {
	Resource(ctx context.Context) (ResourceInfo, error)
}

// Online reports whether the provider does not list the resource as offline.
// The comparison ignores case.
func (i ResourceInfo) Online() bool {
	return !strings.EqualFold(i.Status, "offline")
}
