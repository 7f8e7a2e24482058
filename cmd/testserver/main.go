// testserver serves a fake AQT API for local development and manual testing.
// Point AQT_ENDPOINT at the printed endpoint to run circuits without an AQT
// account.
// Usage: go run ./cmd/testserver
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt/aqttest"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	token := flag.String("token", "", "accepted bearer token; empty accepts any token")
	qubits := flag.Int("qubits", 20, "available qubits reported by the resource")
	status := flag.String("status", aqt.StatusFinished, "final job status (finished, error, cancelled)")
	queued := flag.Int("queued", 2, "number of polls answered with \"queued\" before the final status")
	offline := flag.Bool("offline", false, "report the resource as offline")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	statuses := make([]string, *queued)
	for i := range statuses {
		statuses[i] = aqt.StatusQueued
	}
	resourceStatus := aqt.ResourceOnline
	if *offline {
		resourceStatus = aqt.ResourceOffline
	}

	gw := aqttest.New(
		aqttest.WithToken(*token),
		aqttest.WithResource(resourceStatus, *qubits),
		aqttest.WithStatuses(*status, statuses...),
		aqttest.WithMessage("job failed on fake gateway"),
	)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Mount("/", gw.Handler())

	server := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("testserver: starting", "addr", *addr, "endpoint", "http://localhost"+*addr+aqttest.BasePath)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
