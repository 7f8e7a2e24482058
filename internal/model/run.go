package model

import (
	"context"
	"errors"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// Run status constants.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusTimedOut  = "timed_out"
)

// validTransitions maps each status to the set of statuses it may transition to.
var validTransitions = map[string]map[string]bool{
	StatusPending: {
		StatusRunning:   true,
		StatusFailed:    true,
		StatusCancelled: true,
	},
	StatusRunning: {
		StatusCompleted: true,
		StatusFailed:    true,
		StatusCancelled: true,
		StatusTimedOut:  true,
	},
}

// ValidTransition reports whether transitioning from one status to another is allowed.
func ValidTransition(from, to string) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// IsTerminal reports whether a run in status can no longer change.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusTimedOut:
		return true
	}
	return false
}

// RunEvent is a persisted state transition of one circuit of a run.
type RunEvent struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Seq          int       `json:"seq"`
	Index        int       `json:"index"`
	State        string    `json:"state"`
	JobID        string    `json:"job_id,omitempty"`
	Poll         int       `json:"poll,omitempty"`
	RemoteStatus string    `json:"remote_status,omitempty"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventFromBackend converts a backend event into a RunEvent with sequence seq.
func EventFromBackend(seq int, ev backend.Event) RunEvent {
	return RunEvent{
		RunID:        ev.RunID,
		Seq:          seq,
		Index:        ev.Index,
		State:        string(ev.State),
		JobID:        ev.JobID,
		Poll:         ev.Poll,
		RemoteStatus: ev.RemoteStatus,
		Message:      ev.Message,
	}
}

// Run is one execution of a measurement (one or more circuits) on a backend.
type Run struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	Backend    string             `json:"backend"`
	Resource   string             `json:"resource,omitempty"`
	Circuits   int                `json:"circuits"`
	Shots      int                `json:"shots"`
	JobIDs     []string           `json:"job_ids,omitempty"`
	Registers  *backend.Registers `json:"registers,omitempty"`
	Error      string             `json:"error,omitempty"`
	ErrorKind  string             `json:"error_kind,omitempty"`
	Retryable  bool               `json:"retryable,omitempty"`
	DurationMS *int               `json:"duration_ms,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

// StatusForError maps an execution error to the terminal run status. A run
// whose context was cancelled counts as cancelled.
func StatusForError(err error) string {
	if errors.Is(err, context.Canceled) {
		return StatusCancelled
	}
	switch backend.Kind(err) {
	case "job_cancelled":
		return StatusCancelled
	case "timeout":
		return StatusTimedOut
	default:
		return StatusFailed
	}
}
