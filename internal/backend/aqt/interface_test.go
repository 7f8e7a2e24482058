package aqt

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

func TestTranslateOperationRules(t *testing.T) {
	tests := []struct {
		name string
		op   circuit.Operation
		want Instruction
	}{
		{"RotateZ", circuit.RotateZ{Qubit: 1, Theta: math.Pi / 2}, RZ(0.5, 1)},
		{"RotateX", circuit.RotateX{Qubit: 0, Theta: math.Pi}, R(0, 1, 0)},
		{"RotateY", circuit.RotateY{Qubit: 2, Theta: math.Pi / 4}, R(0.5, 0.25, 2)},
		{"PauliX", circuit.PauliX{Qubit: 3}, R(0, 1, 3)},
		{"PauliY", circuit.PauliY{Qubit: 3}, R(0.5, 1, 3)},
		{"PauliZ", circuit.PauliZ{Qubit: 3}, RZ(1, 3)},
		{"MolmerSorensenXX", circuit.MolmerSorensenXX{Control: 0, Target: 1}, RXX([]int{0, 1}, 0.5)},
		{"VariableMSXX", circuit.VariableMSXX{Control: 1, Target: 0, Theta: math.Pi}, RXX([]int{1, 0}, math.Pi/2)},
		{"MeasureQubit", circuit.MeasureQubit{Qubit: 0, Readout: "ro"}, Measure()},
		{"PragmaRepeatedMeasurement", circuit.PragmaRepeatedMeasurement{Readout: "ro", NumberMeasurements: 10}, Measure()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TranslateOperation(tt.op)
			if err != nil {
				t.Fatalf("TranslateOperation: %v", err)
			}
			if got == nil {
				t.Fatal("TranslateOperation returned nil instruction")
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestTranslateOperationIsPure(t *testing.T) {
	ops := []circuit.Operation{
		circuit.RotateX{Qubit: 0, Theta: 0.3},
		circuit.RotateY{Qubit: 1, Theta: -1.2},
		circuit.RotateZ{Qubit: 2, Theta: 7},
		circuit.VariableMSXX{Control: 0, Target: 1, Theta: 0.7},
		circuit.MolmerSorensenXX{Control: 1, Target: 2},
		circuit.PragmaRepeatedMeasurement{Readout: "ro", NumberMeasurements: 3},
	}
	for _, op := range ops {
		first, err := TranslateOperation(op)
		if err != nil {
			t.Fatalf("%s: %v", op.Hqslang(), err)
		}
		second, err := TranslateOperation(op)
		if err != nil {
			t.Fatalf("%s: %v", op.Hqslang(), err)
		}
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if !bytes.Equal(a, b) {
			t.Errorf("%s: translations differ: %s vs %s", op.Hqslang(), a, b)
		}
	}
}

func TestAngleRoundTrip(t *testing.T) {
	for _, theta := range []float64{0, 0.1, -0.1, 1, math.Pi, -math.Pi, 2 * math.Pi, 12.345, -98.7} {
		z, err := TranslateOperation(circuit.RotateZ{Qubit: 0, Theta: theta})
		if err != nil {
			t.Fatalf("RotateZ: %v", err)
		}
		if got := z.Phi * math.Pi; math.Abs(got-theta) > 1e-9 {
			t.Errorf("RotateZ(%v): reconstructed %v", theta, got)
		}

		x, err := TranslateOperation(circuit.RotateX{Qubit: 0, Theta: theta})
		if err != nil {
			t.Fatalf("RotateX: %v", err)
		}
		if got := x.Theta * math.Pi; math.Abs(got-theta) > 1e-9 {
			t.Errorf("RotateX(%v): reconstructed %v", theta, got)
		}

		y, err := TranslateOperation(circuit.RotateY{Qubit: 0, Theta: theta})
		if err != nil {
			t.Fatalf("RotateY: %v", err)
		}
		if got := y.Theta * math.Pi; math.Abs(got-theta) > 1e-9 {
			t.Errorf("RotateY(%v): reconstructed %v", theta, got)
		}
	}
}

func TestTranslateUnsupportedOperation(t *testing.T) {
	for _, op := range []circuit.Operation{
		circuit.CNOT{Control: 0, Target: 1},
		circuit.Hadamard{Qubit: 0},
		nil,
	} {
		in, err := TranslateOperation(op)
		if in != nil {
			t.Errorf("got instruction %+v for unsupported operation", in)
		}
		if !errors.Is(err, backend.ErrOperationNotSupported) {
			t.Fatalf("err = %v, want ErrOperationNotSupported", err)
		}
		var opErr *backend.OperationNotSupportedError
		if !errors.As(err, &opErr) {
			t.Fatalf("err is %T, want *OperationNotSupportedError", err)
		}
		if opErr.Backend != BackendName {
			t.Errorf("Backend = %q, want %q", opErr.Backend, BackendName)
		}
	}

	_, err := TranslateOperation(circuit.CNOT{Control: 0, Target: 1})
	var opErr *backend.OperationNotSupportedError
	errors.As(err, &opErr)
	if opErr.Operation != "CNOT" {
		t.Errorf("Operation = %q, want CNOT", opErr.Operation)
	}
}

func TestTranslateNoOps(t *testing.T) {
	ops := []circuit.Operation{
		circuit.DefinitionBit{Name: "ro", Length: 5, IsOutput: true},
		circuit.DefinitionBit{Name: "", Length: -1},
		circuit.DefinitionFloat{Name: "f", Length: 3, IsOutput: true},
		circuit.DefinitionComplex{Name: "c", Length: 0},
		circuit.PragmaSetNumberOfMeasurements{NumberMeasurements: 100, Readout: "ro"},
		circuit.PragmaBoostNoise{NoiseCoefficient: math.Inf(1)},
		circuit.PragmaStopParallelBlock{Qubits: []int{0, 1}, ExecutionTime: 1.5},
		circuit.PragmaGlobalPhase{Phase: math.NaN()},
		circuit.PragmaStartDecompositionBlock{Qubits: []int{0}, ReorderingDictionary: map[int]int{0: 1}},
		circuit.PragmaStopDecompositionBlock{Qubits: nil},
		circuit.InputSymbolic{Name: "theta", Input: 2},
		circuit.InputBit{Name: "ro", Index: 3, Value: true},
	}
	for _, op := range ops {
		in, err := TranslateOperation(op)
		if err != nil {
			t.Errorf("%s: unexpected error %v", op.Hqslang(), err)
		}
		if in != nil {
			t.Errorf("%s: got instruction %+v, want nil", op.Hqslang(), in)
		}
	}
}

func TestTranslateCircuitOrder(t *testing.T) {
	c := circuit.New(
		circuit.RotateX{Qubit: 0, Theta: 0},
		circuit.RotateY{Qubit: 0, Theta: 0},
		circuit.MolmerSorensenXX{Control: 0, Target: 1},
		circuit.PragmaRepeatedMeasurement{Readout: "ro", NumberMeasurements: 10},
	)
	got, err := TranslateCircuit(c)
	if err != nil {
		t.Fatalf("TranslateCircuit: %v", err)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"operation":"R","phi":0,"theta":0,"qubit":0},` +
		`{"operation":"R","phi":0.5,"theta":0,"qubit":0},` +
		`{"operation":"RXX","qubits":[0,1],"theta":0.5},` +
		`{"operation":"MEASURE"}]`
	if string(data) != want {
		t.Errorf("instructions =\n%s\nwant\n%s", data, want)
	}
}

func TestTranslateCircuitAbortsOnUnsupported(t *testing.T) {
	c := circuit.New(
		circuit.PauliX{Qubit: 0},
		circuit.CNOT{Control: 0, Target: 1},
		circuit.PauliZ{Qubit: 0},
	)
	got, err := TranslateCircuit(c)
	if !errors.Is(err, backend.ErrOperationNotSupported) {
		t.Fatalf("err = %v, want ErrOperationNotSupported", err)
	}
	if got != nil {
		t.Errorf("got partial instructions %+v", got)
	}
}

func TestSupportedOperations(t *testing.T) {
	ops := SupportedOperations()
	seen := make(map[string]bool, len(ops))
	for _, op := range ops {
		seen[op] = true
	}
	for _, want := range []string{circuit.NameRotateX, circuit.NameVariableMSXX, circuit.NameInputBit, circuit.NameDefinitionBit} {
		if !seen[want] {
			t.Errorf("%s missing from SupportedOperations", want)
		}
	}
	if seen[circuit.NameCNOT] {
		t.Error("CNOT must not be listed as supported")
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1] > ops[i] {
			t.Fatalf("SupportedOperations not sorted: %v", ops)
		}
	}
}
