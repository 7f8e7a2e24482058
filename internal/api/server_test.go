package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt/aqttest"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/engine"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/store"
)

const testToken = "api-test-token"

// newTestServerWithGateway wires a server to an AQT backend that talks to a
// fake gateway. The backend is registered as "aqt" with 2 qubits.
func newTestServerWithGateway(t *testing.T, pollInterval time.Duration, opts ...aqttest.Option) (*Server, *aqttest.Gateway) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	gw := aqttest.New(append([]aqttest.Option{aqttest.WithToken(testToken)}, opts...)...)
	gwSrv, endpoint := aqttest.NewServer(gw)
	t.Cleanup(gwSrv.Close)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	b, err := aqt.New(aqt.CustomDevice{Endpoint: endpoint, Resource: aqt.ResourceSimulator, Qubits: 2}, testToken,
		aqt.WithPollInterval(pollInterval),
		aqt.WithLogger(logger))
	if err != nil {
		t.Fatalf("aqt.New: %v", err)
	}

	reg := backend.NewRegistry()
	reg.Register("aqt", b)

	eng := engine.NewEngine(s, reg, logger)
	t.Cleanup(eng.Shutdown)

	return NewServer(":0", s, reg, eng, logger), gw
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, _ := newTestServerWithGateway(t, time.Millisecond)
	return srv
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	if err != nil {
		t.Fatalf("GET /test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPanicRecovery(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/panic")
	if err != nil {
		t.Fatalf("GET /panic: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	req, _ := http.NewRequest("OPTIONS", ts.URL+"/test", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /test: %v", err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get("Access-Control-Allow-Origin"); v != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", v, "*")
	}
}
