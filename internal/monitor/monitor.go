// Package monitor periodically probes the remote resources behind registered
// backends and keeps the latest availability snapshot per backend.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// DefaultSchedule probes once a minute.
const DefaultSchedule = "@every 1m"

const probeTimeout = 30 * time.Second

var (
	resourceOnline = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qoqo_aqt_resource_online",
			Help: "Whether the last probe found the resource online (1) or not (0).",
		},
		[]string{"backend", "resource"},
	)

	resourceQubits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qoqo_aqt_resource_available_qubits",
			Help: "Qubits reported available by the last probe.",
		},
		[]string{"backend", "resource"},
	)

	probeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoqo_aqt_resource_probe_errors_total",
			Help: "Total number of failed resource probes.",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(resourceOnline)
	prometheus.MustRegister(resourceQubits)
	prometheus.MustRegister(probeErrors)
}

// Snapshot is the outcome of the latest probe of one backend.
type Snapshot struct {
	Backend         string    `json:"backend"`
	Resource        string    `json:"resource"`
	Status          string    `json:"status,omitempty"`
	AvailableQubits int       `json:"available_qubits"`
	Online          bool      `json:"online"`
	Error           string    `json:"error,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// Monitor probes every backend of a registry that implements
// backend.ResourceReporter on a cron schedule.
type Monitor struct {
	registry *backend.Registry
	logger   *slog.Logger
	cron     *cron.Cron

	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// New creates a monitor that probes on schedule. Both standard five-field cron
// expressions and descriptors like "@every 30s" are accepted; an empty
// schedule selects DefaultSchedule.
func New(reg *backend.Registry, schedule string, logger *slog.Logger) (*Monitor, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	m := &Monitor{
		registry:  reg,
		logger:    logger.With("component", "monitor"),
		cron:      cron.New(),
		snapshots: make(map[string]Snapshot),
	}
	if _, err := m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		m.ProbeOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("parse probe schedule %q: %w", schedule, err)
	}
	m.logger.Info("probe registered", "schedule", schedule)
	return m, nil
}

// Start begins scheduled probing in the background.
func (m *Monitor) Start() {
	m.cron.Start()
	m.logger.Info("monitor started")
}

// Stop halts scheduling and waits for a running probe to finish.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("monitor stopped")
}

// ProbeOnce queries every reporting backend once and records the results.
// Backends that cannot report their resource are skipped.
func (m *Monitor) ProbeOnce(ctx context.Context) {
	m.registry.Each(func(name string, b backend.Backend) {
		reporter, ok := b.(backend.ResourceReporter)
		if !ok {
			return
		}
		m.record(ctx, name, b.Capabilities().Resource, reporter)
	})
}

func (m *Monitor) record(ctx context.Context, name, resource string, reporter backend.ResourceReporter) {
	snap := Snapshot{
		Backend:   name,
		Resource:  resource,
		CheckedAt: time.Now().UTC(),
	}

	info, err := reporter.Resource(ctx)
	if err != nil {
		snap.Error = err.Error()
		probeErrors.WithLabelValues(name).Inc()
		m.logger.Warn("resource probe failed", "backend", name, "resource", resource, "error", err)
	} else {
		snap.Status = info.Status
		snap.AvailableQubits = info.AvailableQubits
		snap.Online = info.Online()
		m.logger.Debug("resource probed", "backend", name, "resource", resource,
			"status", info.Status, "available_qubits", info.AvailableQubits)
	}

	online := 0.0
	if snap.Online {
		online = 1
	}
	resourceOnline.WithLabelValues(name, resource).Set(online)
	resourceQubits.WithLabelValues(name, resource).Set(float64(snap.AvailableQubits))

	m.mu.Lock()
	m.snapshots[name] = snap
	m.mu.Unlock()
}

// Snapshots returns the latest probe result of every probed backend, sorted
// by backend name. It is empty until the first probe completes.
func (m *Monitor) Snapshots() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Backend < out[j].Backend
	})
	return out
}

// Snapshot returns the latest probe result for the named backend.
func (m *Monitor) Snapshot(name string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[name]
	return s, ok
}
