package aqt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

// Backend runs circuits on an AQT device through the AQT REST API.
// A Backend is safe for concurrent use; every Execute call owns its job.
type Backend struct {
	device       Device
	client       *client
	clock        Clock
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	clock        Clock
	pollInterval time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// WithClock replaces the clock used between result queries.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPollInterval sets the wait between result queries.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Backend for device. When token is empty the token is read
// from AQT_ACCESS_TOKEN; if neither is set New fails with a
// *backend.MissingAuthenticationError.
func New(device Device, token string, opts ...Option) (*Backend, error) {
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, &backend.MissingAuthenticationError{Msg: "AQT access token is missing"}
	}
	if err := checkQubits(device.NumberQubits()); err != nil {
		return nil, fmt.Errorf("device %s: %w", device.ResourceID(), err)
	}

	o := options{
		clock:        RealClock(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.pollInterval < 0 {
		o.pollInterval = 0
	}

	return &Backend{
		device:       device,
		client:       newClient(device.RemoteHost(), token, device.IsHTTPS(), o.httpClient),
		clock:        o.clock,
		pollInterval: o.pollInterval,
		logger:       o.logger.With("backend", BackendName, "resource", device.ResourceID()),
	}, nil
}

// Device returns the device the backend runs on.
func (b *Backend) Device() Device { return b.device }

// Capabilities reports the device and the supported operations.
func (b *Backend) Capabilities() backend.Capabilities {
	return backend.Capabilities{
		Name:                BackendName,
		Endpoint:            b.client.endpoint,
		Resource:            b.device.ResourceID(),
		NumberQubits:        b.device.NumberQubits(),
		SupportedOperations: SupportedOperations(),
	}
}

// Resource queries the current state of the device's resource.
func (b *Backend) Resource(ctx context.Context) (backend.ResourceInfo, error) {
	res, err := b.client.resource(ctx, b.device.ResourceID())
	if err != nil {
		return backend.ResourceInfo{}, fmt.Errorf("query resource %s: %w", b.device.ResourceID(), err)
	}
	return backend.ResourceInfo{
		Resource:        b.device.ResourceID(),
		Status:          res.Status,
		AvailableQubits: res.AvailableQubits,
	}, nil
}

// ToAqtJSON returns the submission body for c without contacting the API.
func (b *Backend) ToAqtJSON(c circuit.Circuit) ([]byte, error) {
	req, err := Submission(b.device.NumberQubits(), c)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	return data, nil
}

// Submission translates c into the request submitted for a device with
// numberQubits qubits.
func Submission(numberQubits int, c circuit.Circuit) (SubmitRequest, error) {
	if err := checkQubits(numberQubits); err != nil {
		return SubmitRequest{}, err
	}
	job, err := BuildJob(numberQubits, c)
	if err != nil {
		return SubmitRequest{}, err
	}
	return NewSubmitRequest(job.Circuit), nil
}

func checkQubits(n int) error {
	if n <= 0 {
		return fmt.Errorf("number of qubits must be positive, got %d", n)
	}
	return nil
}

// Execute translates spec.Circuit, checks the resource, submits the job and
// polls until it reaches a terminal status. On success the readout register
// holds one bit vector per shot. No registers are returned on failure.
func (b *Backend) Execute(ctx context.Context, spec backend.RunSpec) (backend.Registers, error) {
	start := time.Now()
	resource := b.device.ResourceID()
	logger := b.logger
	if spec.ID != "" {
		logger = logger.With("run_id", spec.ID, "index", spec.Index)
	}

	spec.Emit(backend.Event{State: backend.StateCreated})

	fail := func(state backend.State, outcome, jobID string, err error) (backend.Registers, error) {
		if errors.Is(err, context.Canceled) {
			state, outcome = backend.StateCancelled, outcomeCancelled
		}
		jobsTotal.WithLabelValues(resource, outcome).Inc()
		jobDuration.Observe(time.Since(start).Seconds())
		spec.Emit(backend.Event{State: state, JobID: jobID, Message: err.Error()})
		logger.Warn("aqt job failed", "job_id", jobID, "status", string(state), "error", err)
		return backend.Registers{}, err
	}

	job, err := BuildJob(b.device.NumberQubits(), spec.Circuit)
	if err != nil {
		return fail(backend.StateFailed, outcomeFailed, "", fmt.Errorf("translate circuit: %w", err))
	}

	if err := b.preflight(ctx, job.Circuit.NumberOfQubits); err != nil {
		return fail(backend.StateFailed, outcomeFailed, "", err)
	}

	submitStart := time.Now()
	sub, err := b.client.submit(ctx, resource, NewSubmitRequest(job.Circuit))
	submitDuration.Observe(time.Since(submitStart).Seconds())
	if err != nil {
		return fail(backend.StateFailed, outcomeFailed, "", fmt.Errorf("submit job: %w", err))
	}
	jobID := sub.Job.JobID
	spec.Emit(backend.Event{State: backend.StateSubmitted, JobID: jobID, RemoteStatus: sub.Response.Status})
	logger.Info("aqt job submitted", "job_id", jobID, "repetitions", job.Circuit.Repetitions)

	activeJobs.Inc()
	defer activeJobs.Dec()

	for poll := 1; poll <= MaxPolls; poll++ {
		res, err := b.client.result(ctx, jobID)
		if err != nil {
			pollsPerJob.Observe(float64(poll))
			return fail(backend.StateFailed, outcomeFailed, jobID, fmt.Errorf("query job %s: %w", jobID, err))
		}

		status := res.Response.Status
		spec.Emit(backend.Event{State: backend.StatePolling, JobID: jobID, Poll: poll, RemoteStatus: status})
		logger.Debug("aqt job polled", "job_id", jobID, "poll", poll, "status", status)

		switch status {
		case StatusFinished:
			pollsPerJob.Observe(float64(poll))
			regs := job.Registers
			if err := decodeResult(job.Circuit.NumberOfQubits, job.Circuit.Repetitions, job.Readout, regs, res.Response.Result); err != nil {
				return fail(backend.StateFailed, outcomeFailed, jobID, fmt.Errorf("decode job %s: %w", jobID, err))
			}
			jobsTotal.WithLabelValues(resource, outcomeFinished).Inc()
			jobDuration.Observe(time.Since(start).Seconds())
			spec.Emit(backend.Event{State: backend.StateFinished, JobID: jobID, Poll: poll, RemoteStatus: status})
			logger.Info("aqt job finished", "job_id", jobID, "poll", poll, "shots", len(regs.Bits[job.Readout]))
			return regs, nil

		case StatusError:
			pollsPerJob.Observe(float64(poll))
			return fail(backend.StateFailed, outcomeFailed, jobID,
				&backend.RemoteExecutionError{JobID: jobID, Msg: res.Response.Message})

		case StatusCancelled:
			pollsPerJob.Observe(float64(poll))
			return fail(backend.StateCancelled, outcomeCancelled, jobID, &backend.JobCancelledError{JobID: jobID})
		}

		if poll == MaxPolls {
			break
		}
		if err := b.clock.Sleep(ctx, b.pollInterval); err != nil {
			pollsPerJob.Observe(float64(poll))
			return fail(backend.StateFailed, outcomeFailed, jobID, fmt.Errorf("wait for job %s: %w", jobID, err))
		}
	}

	pollsPerJob.Observe(MaxPolls)
	return fail(backend.StateTimedOut, outcomeTimedOut, jobID, &backend.TimeoutError{JobID: jobID, Polls: MaxPolls})
}

// preflight fails with a *backend.ResourceUnavailableError when the resource
// is offline or has fewer than required qubits.
func (b *Backend) preflight(ctx context.Context, required int) error {
	res, err := b.Resource(ctx)
	if err != nil {
		return err
	}
	if !Available(res, required) {
		return &backend.ResourceUnavailableError{
			Resource:  res.Resource,
			Status:    res.Status,
			Available: res.AvailableQubits,
			Required:  required,
		}
	}
	return nil
}

// Available reports whether the resource described by info can run a
// circuit with required qubits.
func Available(info backend.ResourceInfo, required int) bool {
	return info.Online() && info.AvailableQubits >= required
}

var (
	_ backend.Backend          = (*Backend)(nil)
	_ backend.ResourceReporter = (*Backend)(nil)
)
