package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/model"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/store"
)

// ErrRunNotActive is returned by Cancel for runs that are not executing.
var ErrRunNotActive = errors.New("run is not active")

// Engine orchestrates asynchronous run execution.
type Engine struct {
	store    store.Store
	registry *backend.Registry
	logger   *slog.Logger
	broker   *EventBroker
	wg       sync.WaitGroup

	ctx      context.Context
	shutdown context.CancelFunc

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewEngine creates a new execution engine.
func NewEngine(s store.Store, reg *backend.Registry, logger *slog.Logger) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		store:    s,
		registry: reg,
		logger:   logger,
		broker:   NewEventBroker(),
		ctx:      ctx,
		shutdown: cancel,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Broker returns the engine's event broker for SSE subscription.
func (e *Engine) Broker() *EventBroker {
	return e.broker
}

// Submit resolves the run's backend, stores the run with status "pending" and
// launches execution in a goroutine. An empty r.Backend selects the registry
// default; an unknown one fails with backend.ErrBackendNotFound before
// anything is stored. The goroutine works on a copy of r.
func (e *Engine) Submit(ctx context.Context, r *model.Run, m circuit.Measurement) error {
	if r.Backend == "" {
		r.Backend = e.registry.DefaultName()
	}
	b, err := e.registry.Resolve(r.Backend)
	if err != nil {
		return fmt.Errorf("resolve backend: %w", err)
	}
	if r.ID == "" {
		r.ID = model.NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Status = model.StatusPending
	r.Resource = b.Capabilities().Resource
	r.Circuits = len(m.Circuits)
	r.Shots = m.Repetitions()

	if err := e.store.CreateRun(ctx, r); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	runCtx, cancel := context.WithCancel(e.ctx)
	e.mu.Lock()
	e.cancels[r.ID] = cancel
	e.mu.Unlock()

	rCopy := *r
	e.wg.Go(func() {
		defer func() {
			e.mu.Lock()
			delete(e.cancels, rCopy.ID)
			e.mu.Unlock()
			cancel()
		}()
		e.execute(runCtx, &rCopy, b, m)
	})

	return nil
}

// Cancel stops an executing run. The run ends with status "cancelled".
func (e *Engine) Cancel(id string) error {
	e.mu.Lock()
	cancel, ok := e.cancels[id]
	e.mu.Unlock()
	if !ok {
		return ErrRunNotActive
	}
	cancel()
	return nil
}

// Active returns the number of runs currently executing.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cancels)
}

// Wait blocks until all in-flight runs complete.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Shutdown cancels all in-flight runs and waits for them to finish.
func (e *Engine) Shutdown() {
	e.shutdown()
	e.wg.Wait()
}

// execute runs the run lifecycle: pending→running→terminal.
func (e *Engine) execute(ctx context.Context, r *model.Run, b backend.Backend, m circuit.Measurement) {
	// Close the event stream when execution finishes, regardless of outcome.
	defer e.broker.Close(r.ID)

	logger := e.logger.With("run_id", r.ID, "backend", r.Backend)

	if err := e.store.UpdateRunStatus(context.Background(), r.ID, model.StatusRunning); err != nil {
		logger.Error("failed to transition to running", "error", err)
		return
	}
	start := time.Now().UTC()
	logger.Info("run started", "circuits", r.Circuits, "shots", r.Shots)

	// Events are persisted for history and published for live streaming.
	var (
		mu     sync.Mutex
		seq    int
		jobIDs []string
	)
	onEvent := func(ev backend.Event) {
		mu.Lock()
		runEv := model.EventFromBackend(seq, ev)
		seq++
		if ev.State == backend.StateSubmitted && ev.JobID != "" {
			jobIDs = append(jobIDs, ev.JobID)
		}
		mu.Unlock()

		runEv.RunID = r.ID
		if err := e.store.InsertEvent(context.Background(), &runEv); err != nil {
			logger.Error("failed to persist run event", "seq", runEv.Seq, "error", err)
		}
		e.broker.Publish(r.ID, runEv)
	}

	regs, err := backend.RunMeasurementRegisters(ctx, b, r.ID, m, onEvent)

	now := time.Now().UTC()
	durationMS := int(now.Sub(start).Milliseconds())
	mu.Lock()
	r.JobIDs = jobIDs
	mu.Unlock()
	r.StartedAt = &start
	r.FinishedAt = &now
	r.DurationMS = &durationMS

	if err != nil {
		r.Status = model.StatusForError(err)
		r.Error = err.Error()
		r.ErrorKind = backend.Kind(err)
		r.Retryable = backend.IsRetryable(err)
		logger.Warn("run ended", "status", r.Status, "error_kind", r.ErrorKind, "error", err)
	} else {
		r.Status = model.StatusCompleted
		r.Registers = &regs
		logger.Info("run completed", "duration_ms", durationMS)
	}

	if err := e.store.UpdateRun(context.Background(), r); err != nil {
		logger.Error("failed to update finished run", "error", err)
	}
}
