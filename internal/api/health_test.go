package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt/aqttest"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/model"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/monitor"
)

func getHealth(t *testing.T, ts *httptest.Server) healthResponse {
	t.Helper()
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func probedServer(t *testing.T, opts ...aqttest.Option) *Server {
	t.Helper()
	srv, _ := newTestServerWithGateway(t, time.Millisecond, opts...)
	m, err := monitor.New(srv.registry, "@every 1h", slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("monitor.New: %v", err)
	}
	m.ProbeOnce(context.Background())
	srv.SetMonitor(m)
	return srv
}

func TestHealthzWithoutMonitor(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	body := getHealth(t, ts)
	if body.Status != healthOK || body.ActiveRuns != 0 {
		t.Errorf("health = %+v", body)
	}
	if len(body.Backends) != 1 {
		t.Fatalf("backends = %+v, want one", body.Backends)
	}
	b := body.Backends[0]
	if b.Name != "aqt" || b.Resource != aqt.ResourceSimulator {
		t.Errorf("backend = %+v", b)
	}
	if b.Online != nil || b.CheckedAt != nil {
		t.Errorf("unprobed backend reports state: %+v", b)
	}
}

func TestHealthzReportsProbedBackend(t *testing.T) {
	ts := httptest.NewServer(probedServer(t).Router())
	defer ts.Close()

	body := getHealth(t, ts)
	if body.Status != healthOK {
		t.Errorf("status = %q, want %q", body.Status, healthOK)
	}
	b := body.Backends[0]
	if b.Online == nil || !*b.Online || b.CheckedAt == nil {
		t.Errorf("backend = %+v, want online with probe time", b)
	}
}

func TestHealthzDegradedWhenResourceOffline(t *testing.T) {
	ts := httptest.NewServer(probedServer(t, aqttest.WithResource(aqt.ResourceOffline, 0)).Router())
	defer ts.Close()

	body := getHealth(t, ts)
	if body.Status != healthDegraded {
		t.Errorf("status = %q, want %q", body.Status, healthDegraded)
	}
	if b := body.Backends[0]; b.Online == nil || *b.Online {
		t.Errorf("backend = %+v, want offline", b)
	}
}

func TestHealthzCountsActiveRuns(t *testing.T) {
	srv, _ := newTestServerWithGateway(t, time.Hour,
		aqttest.WithStatuses(aqt.StatusFinished, aqt.StatusQueued, aqt.StatusQueued))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, _ := postRun(t, ts, bellDocument)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	if body := getHealth(t, ts); body.ActiveRuns != 1 {
		t.Errorf("active_runs = %d, want 1", body.ActiveRuns)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	getHealth(t, ts)
	resp, run := postRun(t, ts, bellDocument)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	waitForRun(t, ts, run.ID, model.StatusCompleted)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/plain") && !strings.Contains(contentType, "text/openmetrics") {
		t.Errorf("Content-Type = %q, expected prometheus format", contentType)
	}

	data, _ := io.ReadAll(resp.Body)
	body := string(data)
	for _, want := range []string{
		`qoqo_aqt_api_requests_total{code="200",method="GET",route="/healthz"}`,
		`qoqo_aqt_api_requests_total{code="202",method="POST",route="/v1/runs`,
		`qoqo_aqt_api_request_duration_seconds_count{route="/healthz"}`,
		`qoqo_aqt_api_runs_accepted_total{backend="aqt"}`,
		"qoqo_aqt_api_event_streams",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
