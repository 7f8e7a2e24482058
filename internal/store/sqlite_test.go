package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestRun() *model.Run {
	return &model.Run{
		ID:        model.NewID(),
		Status:    model.StatusPending,
		Backend:   "aqt",
		Resource:  "simulator_noise",
		Circuits:  1,
		Shots:     100,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()

	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := s.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	if got.ID != r.ID {
		t.Errorf("ID = %q, want %q", got.ID, r.ID)
	}
	if got.Status != r.Status {
		t.Errorf("Status = %q, want %q", got.Status, r.Status)
	}
	if got.Backend != r.Backend {
		t.Errorf("Backend = %q, want %q", got.Backend, r.Backend)
	}
	if got.Resource != r.Resource {
		t.Errorf("Resource = %q, want %q", got.Resource, r.Resource)
	}
	if got.Shots != 100 || got.Circuits != 1 {
		t.Errorf("Shots/Circuits = %d/%d, want 100/1", got.Shots, got.Circuits)
	}
	if got.Registers != nil {
		t.Errorf("Registers = %+v, want nil for a pending run", got.Registers)
	}
	if len(got.JobIDs) != 0 {
		t.Errorf("JobIDs = %v, want none", got.JobIDs)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun error = %v, want ErrNotFound", err)
	}
}

func TestListRunsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		r := makeTestRun()
		r.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	page, total, err := s.ListRuns(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Errorf("runs not ordered newest first: %v, %v", page[0].CreatedAt, page[1].CreatedAt)
	}

	last, _, err := s.ListRuns(ctx, 2, 4)
	if err != nil {
		t.Fatalf("ListRuns offset: %v", err)
	}
	if len(last) != 1 {
		t.Errorf("last page size = %d, want 1", len(last))
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, total, err := s.ListRuns(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("runs = %v, want empty non-nil slice", runs)
	}
}

func TestUpdateRunStatusLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := s.UpdateRunStatus(ctx, r.ID, model.StatusRunning); err != nil {
		t.Fatalf("pending→running: %v", err)
	}
	got, _ := s.GetRun(ctx, r.ID)
	if got.Status != model.StatusRunning {
		t.Errorf("Status = %q, want %q", got.Status, model.StatusRunning)
	}
	if got.StartedAt == nil {
		t.Error("StartedAt is nil, expected it to be set for running status")
	}

	if err := s.UpdateRunStatus(ctx, r.ID, model.StatusTimedOut); err != nil {
		t.Fatalf("running→timed_out: %v", err)
	}
	got, _ = s.GetRun(ctx, r.ID)
	if got.FinishedAt == nil {
		t.Error("FinishedAt is nil, expected it to be set for a terminal status")
	}

	err := s.UpdateRunStatus(ctx, r.ID, model.StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("timed_out→completed: got error %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateRunStatusInvalidTransition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	err := s.UpdateRunStatus(ctx, r.ID, model.StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending→completed: got error %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateRunStatusNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateRunStatus(context.Background(), "nonexistent", model.StatusRunning)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestUpdateRunStoresRegisters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	now := time.Now().UTC()
	r.Status = model.StatusRunning
	r.StartedAt = &now
	if err := s.UpdateRun(ctx, r); err != nil {
		t.Fatalf("UpdateRun (running): %v", err)
	}

	regs := backend.NewRegisters()
	regs.Bits["ro"] = backend.BitRegister{{true, false}, {false, true}}
	regs.Floats["empty"] = backend.FloatRegister{}
	regs.Complexes["c"] = backend.ComplexRegister{{complex(0.5, -1)}}

	durationMS := 250
	finished := now.Add(250 * time.Millisecond)
	r.Status = model.StatusCompleted
	r.Registers = &regs
	r.JobIDs = []string{"job-1", "job-2"}
	r.DurationMS = &durationMS
	r.FinishedAt = &finished
	if err := s.UpdateRun(ctx, r); err != nil {
		t.Fatalf("UpdateRun (completed): %v", err)
	}

	got, err := s.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.Registers == nil {
		t.Fatal("Registers is nil")
	}
	ro := got.Registers.Bits["ro"]
	if len(ro) != 2 || !ro[0][0] || ro[0][1] || !ro[1][1] {
		t.Errorf("ro = %v, want [[true false] [false true]]", ro)
	}
	if f, ok := got.Registers.Floats["empty"]; !ok || f == nil || len(f) != 0 {
		t.Errorf("empty float register = %v (present %v)", f, ok)
	}
	if c := got.Registers.Complexes["c"]; len(c) != 1 || c[0][0] != complex(0.5, -1) {
		t.Errorf("complex register = %v", c)
	}
	if len(got.JobIDs) != 2 || got.JobIDs[1] != "job-2" {
		t.Errorf("JobIDs = %v", got.JobIDs)
	}
	if got.DurationMS == nil || *got.DurationMS != 250 {
		t.Errorf("DurationMS = %v, want 250", got.DurationMS)
	}
}

func TestUpdateRunStoresError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	r.Status = model.StatusRunning
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	r.Status = model.StatusFailed
	r.Error = "network error: request failed with HTTP status code 503"
	r.ErrorKind = "network"
	r.Retryable = true
	if err := s.UpdateRun(ctx, r); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	got, _ := s.GetRun(ctx, r.ID)
	if got.Error != r.Error || got.ErrorKind != "network" || !got.Retryable {
		t.Errorf("got error fields %q/%q/%v", got.Error, got.ErrorKind, got.Retryable)
	}
}

func TestUpdateRunNotFound(t *testing.T) {
	s := newTestStore(t)
	r := makeTestRun()
	r.ID = "nonexistent"
	if err := s.UpdateRun(context.Background(), r); !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestUpdateRunInvalidTransition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	r.Status = model.StatusCompleted
	if err := s.UpdateRun(ctx, r); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("got error %v, want ErrInvalidTransition", err)
	}
}

func TestGetRunStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := makeTestRun()
		r.Status = model.StatusRunning
		if err := s.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
		dur := 100 + i*100 // 100, 200, 300
		r.DurationMS = &dur
		if i < 2 {
			r.Status = model.StatusCompleted
		} else {
			r.Status = model.StatusTimedOut
			r.ErrorKind = "timeout"
		}
		if err := s.UpdateRun(ctx, r); err != nil {
			t.Fatalf("UpdateRun: %v", err)
		}
	}

	other := makeTestRun()
	other.Backend = "aqt-simulator"
	other.Shots = 10
	if err := s.CreateRun(ctx, other); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	stats, err := s.GetRunStats(ctx)
	if err != nil {
		t.Fatalf("GetRunStats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.TotalShots != 310 {
		t.Errorf("TotalShots = %d, want 310", stats.TotalShots)
	}
	if stats.CountByStatus[model.StatusCompleted] != 2 {
		t.Errorf("completed count = %d, want 2", stats.CountByStatus[model.StatusCompleted])
	}
	if stats.CountByStatus[model.StatusTimedOut] != 1 {
		t.Errorf("timed_out count = %d, want 1", stats.CountByStatus[model.StatusTimedOut])
	}
	if stats.CountByBackend["aqt"] != 3 || stats.CountByBackend["aqt-simulator"] != 1 {
		t.Errorf("CountByBackend = %v", stats.CountByBackend)
	}
	if stats.CountByErrorKind["timeout"] != 1 || len(stats.CountByErrorKind) != 1 {
		t.Errorf("CountByErrorKind = %v", stats.CountByErrorKind)
	}
	if stats.AvgDurationMS != 200 {
		t.Errorf("AvgDurationMS = %f, want 200", stats.AvgDurationMS)
	}
}

func TestGetRunStatsEmpty(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.GetRunStats(context.Background())
	if err != nil {
		t.Fatalf("GetRunStats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Total = %d, want 0", stats.Total)
	}
	if stats.AvgDurationMS != 0 {
		t.Errorf("AvgDurationMS = %f, want 0", stats.AvgDurationMS)
	}
}

func TestInsertAndGetEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := makeTestRun()
	if err := s.CreateRun(ctx, r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	states := []backend.State{backend.StateCreated, backend.StateSubmitted, backend.StatePolling, backend.StateFinished}
	for i := len(states) - 1; i >= 0; i-- {
		ev := model.EventFromBackend(i, backend.Event{RunID: r.ID, State: states[i], JobID: "job-1", Poll: i})
		if err := s.InsertEvent(ctx, &ev); err != nil {
			t.Fatalf("InsertEvent: %v", err)
		}
		if ev.ID == 0 {
			t.Error("InsertEvent did not set ID")
		}
	}

	events, err := s.GetEvents(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(events) != len(states) {
		t.Fatalf("got %d events, want %d", len(events), len(states))
	}
	for i, ev := range events {
		if ev.Seq != i {
			t.Errorf("event %d seq = %d", i, ev.Seq)
		}
		if ev.State != string(states[i]) {
			t.Errorf("event %d state = %q, want %q", i, ev.State, states[i])
		}
		if ev.JobID != "job-1" {
			t.Errorf("event %d job id = %q", i, ev.JobID)
		}
	}
}

func TestGetEventsIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r := makeTestRun()
		if err := s.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
		for seq := 0; seq <= i; seq++ {
			ev := model.RunEvent{RunID: r.ID, Seq: seq, State: "polling", Message: fmt.Sprintf("run %d", i)}
			if err := s.InsertEvent(ctx, &ev); err != nil {
				t.Fatalf("InsertEvent: %v", err)
			}
		}
		events, err := s.GetEvents(ctx, r.ID)
		if err != nil {
			t.Fatalf("GetEvents: %v", err)
		}
		if len(events) != i+1 {
			t.Errorf("run %d has %d events, want %d", i, len(events), i+1)
		}
	}

	none, err := s.GetEvents(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("events = %v, want empty non-nil slice", none)
	}
}

func TestMigrationIdempotency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	r := makeTestRun()
	if err := s1.CreateRun(context.Background(), r); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()
	if _, err := s2.GetRun(context.Background(), r.ID); err != nil {
		t.Errorf("run lost across reopen: %v", err)
	}
}
