package aqt

import "time"

// Backend constants.
const (
	// BackendName is the name used in errors, logs and the backend registry.
	BackendName = "AQT"

	// TokenEnvVar is read when no access token is passed to New.
	TokenEnvVar = "AQT_ACCESS_TOKEN"

	// JobType is the job_type of every submission.
	JobType = "quantum_circuit"

	// JobLabel labels every submitted job.
	JobLabel = "qoqo_aqt_backend"

	// Workspace is the AQT workspace jobs are submitted to.
	Workspace = "qoqo-integration"
)

// Polling limits.
const (
	// MaxPolls is the number of result queries after which a job that is
	// still queued or ongoing times out.
	MaxPolls = 100

	// DefaultPollInterval is the wait between two result queries.
	DefaultPollInterval = 2 * time.Second
)

// Remote job statuses.
const (
	StatusQueued    = "queued"
	StatusOngoing   = "ongoing"
	StatusFinished  = "finished"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Resource statuses.
const (
	ResourceOnline  = "online"
	ResourceOffline = "offline"
)
