package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories. Every typed error below matches exactly one of these
// through errors.Is.
var (
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrMissingAuthentication = errors.New("missing authentication")
	ErrNetwork               = errors.New("network error")
	ErrResourceUnavailable   = errors.New("resource unavailable")
	ErrRemoteExecution       = errors.New("remote execution error")
	ErrJobCancelled          = errors.New("job cancelled")
	ErrTimeout               = errors.New("timeout")
)

// OperationNotSupportedError is returned when a circuit contains an operation
// the backend cannot translate.
type OperationNotSupportedError struct {
	Backend   string
	Operation string
}

func (e *OperationNotSupportedError) Error() string {
	return fmt.Sprintf("operation %s not supported by backend %s", e.Operation, e.Backend)
}

func (e *OperationNotSupportedError) Is(target error) bool {
	return target == ErrOperationNotSupported
}

// MissingAuthenticationError is returned when no access token is available.
type MissingAuthenticationError struct {
	Msg string
}

func (e *MissingAuthenticationError) Error() string {
	return "missing authentication: " + e.Msg
}

func (e *MissingAuthenticationError) Is(target error) bool {
	return target == ErrMissingAuthentication
}

// NetworkError is returned when a request fails in transport, the remote
// answers with a non-2xx status or its response cannot be used. StatusCode is
// 0 for failures without an HTTP status. Permanent marks failures that
// repeating the request cannot fix, such as a malformed response.
type NetworkError struct {
	StatusCode int
	Msg        string
	Permanent  bool
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error: request failed with HTTP status code %d: %s", e.StatusCode, e.Msg)
	}
	return "network error: " + e.Msg
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// ResourceUnavailableError is returned by the pre-flight check when the
// remote resource is offline or has too few qubits.
type ResourceUnavailableError struct {
	Resource  string
	Status    string
	Available int
	Required  int
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("resource %s unavailable: status %q, %d qubits available, %d required",
		e.Resource, e.Status, e.Available, e.Required)
}

func (e *ResourceUnavailableError) Is(target error) bool {
	return target == ErrResourceUnavailable
}

// RemoteExecutionError is returned when the remote job ends in status "error".
type RemoteExecutionError struct {
	JobID string
	Msg   string
}

func (e *RemoteExecutionError) Error() string {
	return fmt.Sprintf("job %s reported error: %s", e.JobID, e.Msg)
}

func (e *RemoteExecutionError) Is(target error) bool {
	return target == ErrRemoteExecution
}

// JobCancelledError is returned when the remote job was cancelled.
type JobCancelledError struct {
	JobID string
}

func (e *JobCancelledError) Error() string {
	return fmt.Sprintf("job %s was cancelled", e.JobID)
}

func (e *JobCancelledError) Is(target error) bool {
	return target == ErrJobCancelled
}

// TimeoutError is returned when a job did not reach a terminal status within
// the poll limit.
type TimeoutError struct {
	JobID string
	Polls int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s timed out after %d polls", e.JobID, e.Polls)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// IsRetryable reports whether err belongs to a class that may succeed when
// the whole run is attempted again: timeouts, transport failures, rate
// limiting and server-side errors. Permanent network errors never are.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Permanent {
			return false
		}
		return netErr.StatusCode == 0 ||
			netErr.StatusCode == http.StatusTooManyRequests ||
			netErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Kind returns a short, stable name for the category of err, or "" if err
// matches none of the categories.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOperationNotSupported):
		return "operation_not_supported"
	case errors.Is(err, ErrMissingAuthentication):
		return "missing_authentication"
	case errors.Is(err, ErrResourceUnavailable):
		return "resource_unavailable"
	case errors.Is(err, ErrRemoteExecution):
		return "remote_execution"
	case errors.Is(err, ErrJobCancelled):
		return "job_cancelled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return ""
	}
}
