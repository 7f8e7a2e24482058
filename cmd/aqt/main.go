// aqt translates circuit documents into AQT submissions and runs them on an
// AQT device.
//
// Usage:
//
//	aqt translate [-qubits N] circuit.yaml
//	aqt run [-endpoint URL] [-resource ID] [-qubits N] [-poll D] circuit.yaml
//
// Defaults come from the AQT_* environment variables and an optional .env
// file. The access token is read from AQT_ACCESS_TOKEN.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend/aqt"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/config"
)

const usage = `usage:
  aqt translate [-qubits N] <circuit-file>
  aqt run [-endpoint URL] [-resource ID] [-qubits N] [-poll D] <circuit-file>`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg := config.Load()
	var err error
	switch args[0] {
	case "translate":
		err = translate(args[1:], cfg, stdout, stderr)
	case "run":
		err = execute(ctx, args[1:], cfg, stdout, stderr)
	default:
		fmt.Fprintln(stderr, usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "aqt: %v\n", err)
		return 1
	}
	return 0
}

func translate(args []string, cfg config.Config, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	qubits := fs.Int("qubits", cfg.NumberQubits, "number of qubits of the device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := loadMeasurement(fs.Args())
	if err != nil {
		return err
	}

	subs := make([]aqt.SubmitRequest, 0, len(m.Circuits))
	for i, c := range m.Expanded() {
		sub, err := aqt.Submission(*qubits, c)
		if err != nil {
			return fmt.Errorf("circuit %d: %w", i, err)
		}
		subs = append(subs, sub)
	}
	return writeJSON(stdout, subs)
}

func execute(ctx context.Context, args []string, cfg config.Config, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	endpoint := fs.String("endpoint", cfg.Endpoint, "AQT API endpoint")
	resource := fs.String("resource", cfg.Resource, "AQT resource id")
	qubits := fs.Int("qubits", cfg.NumberQubits, "number of qubits of the device")
	poll := fs.Duration("poll", cfg.PollInterval, "interval between job status queries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := loadMeasurement(fs.Args())
	if err != nil {
		return err
	}

	logger := config.NewLogger(stderr, cfg.LogLevel)
	b, err := aqt.New(aqt.DeviceFor(*endpoint, *resource, *qubits), cfg.AccessToken,
		aqt.WithPollInterval(*poll),
		aqt.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	regs, err := backend.RunMeasurementRegisters(ctx, b, "", m, nil)
	if err != nil {
		return err
	}
	return writeJSON(stdout, regs)
}

func loadMeasurement(args []string) (circuit.Measurement, error) {
	if len(args) != 1 {
		return circuit.Measurement{}, fmt.Errorf("expected one circuit file, got %d arguments", len(args))
	}
	doc, err := circuit.LoadFile(args[0])
	if err != nil {
		return circuit.Measurement{}, err
	}
	return doc.Measurement()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
