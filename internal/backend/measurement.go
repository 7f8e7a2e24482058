package backend

import (
	"context"
	"fmt"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

// RunMeasurementRegisters executes every circuit of m on b, one after the
// other in index order, and merges the output registers in that order. The
// first failing circuit aborts the measurement and no registers are returned.
func RunMeasurementRegisters(ctx context.Context, b Backend, runID string, m circuit.Measurement, events func(Event)) (Registers, error) {
	merged := NewRegisters()
	for i, c := range m.Expanded() {
		regs, err := b.Execute(ctx, RunSpec{
			ID:      runID,
			Index:   i,
			Circuit: c,
			Events:  events,
		})
		if err != nil {
			return Registers{}, fmt.Errorf("circuit %d: %w", i, err)
		}
		merged.Merge(regs)
	}
	return merged, nil
}

// RunCircuit executes a single circuit on b.
func RunCircuit(ctx context.Context, b Backend, c circuit.Circuit) (Registers, error) {
	return b.Execute(ctx, RunSpec{Circuit: c})
}
