package main

import (
	"log"
	"os"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/api"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/config"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/engine"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/monitor"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("aqt-server: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"endpoint", cfg.Endpoint,
		"resource", cfg.Resource,
		"number_qubits", cfg.NumberQubits,
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	device := aqt.DeviceFor(cfg.Endpoint, cfg.Resource, cfg.NumberQubits)
	b, err := aqt.New(device, cfg.AccessToken,
		aqt.WithPollInterval(cfg.PollInterval),
		aqt.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("failed to create AQT backend: %v", err)
	}

	reg := backend.NewRegistry()
	reg.Register("aqt", b)

	eng := engine.NewEngine(db, reg, logger)
	defer eng.Shutdown()

	mon, err := monitor.New(reg, cfg.ProbeSchedule, logger)
	if err != nil {
		log.Fatalf("failed to create resource monitor: %v", err)
	}
	mon.Start()
	defer mon.Stop()

	srv := api.NewServer(cfg.ListenAddr, db, reg, eng, logger)
	srv.SetMonitor(mon)

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
