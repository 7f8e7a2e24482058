package backend

// State is a step of a remote circuit execution.
type State string

// Execution states. Finished, Failed, Cancelled and TimedOut are terminal.
// Cancelled is reachable from every non-terminal state because the caller
// may cancel the context at any point.
const (
	StateCreated   State = "created"
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
	StateTimedOut  State = "timed_out"
)

var stateTransitions = map[State]map[State]bool{
	StateCreated: {
		StateSubmitted: true,
		StateFailed:    true,
		StateCancelled: true,
	},
	StateSubmitted: {
		StatePolling:   true,
		StateFailed:    true,
		StateCancelled: true,
	},
	StatePolling: {
		StatePolling:   true,
		StateFinished:  true,
		StateFailed:    true,
		StateCancelled: true,
		StateTimedOut:  true,
	},
}

// CanTransition reports whether an execution may move from one state to another.
func CanTransition(from, to State) bool {
	return stateTransitions[from][to]
}

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	return len(stateTransitions[s]) == 0
}

// Event reports a state transition of one circuit execution.
type Event struct {
	RunID        string `json:"run_id,omitempty"`
	Index        int    `json:"index"`
	State        State  `json:"state"`
	JobID        string `json:"job_id,omitempty"`
	Poll         int    `json:"poll,omitempty"`
	RemoteStatus string `json:"remote_status,omitempty"`
	Message      string `json:"message,omitempty"`
}
