package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/model"
)

func TestGetStatsEmpty(t *testing.T) {
	srv := newTestServer(t)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if stats.Total != 0 {
		t.Errorf("total = %d, want 0", stats.Total)
	}
	if stats.AvgDurationMS != 0 {
		t.Errorf("avg_duration_ms = %f, want 0", stats.AvgDurationMS)
	}
}

func TestGetStatsPopulated(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	// Three completed runs of 10 shots on "aqt".
	for range 3 {
		r := &model.Run{
			ID: model.NewID(), Status: model.StatusPending,
			Backend: "aqt", Circuits: 1, Shots: 10,
			CreatedAt: time.Now().UTC(),
		}
		if err := srv.store.CreateRun(ctx, r); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
		if err := srv.store.UpdateRunStatus(ctx, r.ID, model.StatusRunning); err != nil {
			t.Fatalf("pending→running: %v", err)
		}
		dur := 100
		r.Status = model.StatusCompleted
		r.DurationMS = &dur
		r.StartedAt = ptrTime(time.Now())
		r.FinishedAt = ptrTime(time.Now())
		if err := srv.store.UpdateRun(ctx, r); err != nil {
			t.Fatalf("UpdateRun: %v", err)
		}
	}

	// One run that timed out on "sim".
	tr := &model.Run{
		ID: model.NewID(), Status: model.StatusPending,
		Backend: "sim", Circuits: 1, Shots: 5,
		CreatedAt: time.Now().UTC(),
	}
	if err := srv.store.CreateRun(ctx, tr); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := srv.store.UpdateRunStatus(ctx, tr.ID, model.StatusRunning); err != nil {
		t.Fatalf("pending→running: %v", err)
	}
	tr.Status = model.StatusTimedOut
	tr.ErrorKind = "timeout"
	tr.Error = "job j timed out after 100 polls"
	if err := srv.store.UpdateRun(ctx, tr); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.ByStatus[model.StatusCompleted] != 3 {
		t.Errorf("by_status[completed] = %d, want 3", stats.ByStatus[model.StatusCompleted])
	}
	if stats.ByStatus[model.StatusTimedOut] != 1 {
		t.Errorf("by_status[timed_out] = %d, want 1", stats.ByStatus[model.StatusTimedOut])
	}
	if stats.ByBackend["aqt"] != 3 || stats.ByBackend["sim"] != 1 {
		t.Errorf("by_backend = %v", stats.ByBackend)
	}
	if stats.ByErrorKind["timeout"] != 1 {
		t.Errorf("by_error_kind = %v", stats.ByErrorKind)
	}
	if stats.TotalShots != 35 {
		t.Errorf("total_shots = %d, want 35", stats.TotalShots)
	}
	if stats.AvgDurationMS != 100 {
		t.Errorf("avg_duration_ms = %f, want 100", stats.AvgDurationMS)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
