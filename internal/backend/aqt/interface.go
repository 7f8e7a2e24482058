package aqt

import (
	"fmt"
	"math"
	"sort"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

// noOps are operations that translate to no instruction and no error.
var noOps = map[string]bool{
	circuit.NameDefinitionBit:                 true,
	circuit.NameDefinitionFloat:               true,
	circuit.NameDefinitionComplex:             true,
	circuit.NamePragmaSetNumberOfMeasurements: true,
	circuit.NamePragmaBoostNoise:              true,
	circuit.NamePragmaStopParallelBlock:       true,
	circuit.NamePragmaGlobalPhase:             true,
	circuit.NamePragmaStartDecompositionBlock: true,
	circuit.NamePragmaStopDecompositionBlock:  true,
	circuit.NameInputSymbolic:                 true,
	circuit.NameInputBit:                      true,
}

// gates are the operations that translate to an instruction.
var gates = []string{
	circuit.NameRotateX,
	circuit.NameRotateY,
	circuit.NameRotateZ,
	circuit.NamePauliX,
	circuit.NamePauliY,
	circuit.NamePauliZ,
	circuit.NameMolmerSorensenXX,
	circuit.NameVariableMSXX,
	circuit.NameMeasureQubit,
	circuit.NamePragmaRepeatedMeasurement,
}

// SupportedOperations returns the names of all operations a circuit run on
// AQT may contain, sorted.
func SupportedOperations() []string {
	names := make([]string, 0, len(gates)+len(noOps))
	names = append(names, gates...)
	for name := range noOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TranslateOperation converts a single operation into an AQT instruction.
// It returns nil without error for operations that have no effect on the
// device, and an *backend.OperationNotSupportedError for everything the
// device cannot run.
func TranslateOperation(op circuit.Operation) (*Instruction, error) {
	var in Instruction
	switch o := op.(type) {
	case circuit.RotateZ:
		in = RZ(o.Theta/math.Pi, o.Qubit)
	case circuit.RotateX:
		in = R(0, o.Theta/math.Pi, o.Qubit)
	case circuit.RotateY:
		in = R(0.5, o.Theta/math.Pi, o.Qubit)
	case circuit.PauliX:
		in = R(0, 1, o.Qubit)
	case circuit.PauliY:
		in = R(0.5, 1, o.Qubit)
	case circuit.PauliZ:
		in = RZ(1, o.Qubit)
	case circuit.MolmerSorensenXX:
		in = RXX([]int{o.Control, o.Target}, 0.5)
	case circuit.VariableMSXX:
		// Halved, not normalised by π.
		in = RXX([]int{o.Control, o.Target}, o.Theta/2)
	case circuit.MeasureQubit, circuit.PragmaRepeatedMeasurement:
		in = Measure()
	default:
		if op != nil && noOps[op.Hqslang()] {
			return nil, nil
		}
		return nil, &backend.OperationNotSupportedError{
			Backend:   BackendName,
			Operation: operationName(op),
		}
	}
	return &in, nil
}

// TranslateCircuit converts every operation of c. It stops at the first
// unsupported operation and returns no instructions in that case.
func TranslateCircuit(c circuit.Circuit) ([]Instruction, error) {
	out := make([]Instruction, 0, len(c))
	for _, op := range c {
		in, err := TranslateOperation(op)
		if err != nil {
			return nil, err
		}
		if in != nil {
			out = append(out, *in)
		}
	}
	return out, nil
}

func operationName(op circuit.Operation) string {
	if op == nil {
		return "<nil>"
	}
	if name := op.Hqslang(); name != "" {
		return name
	}
	return fmt.Sprintf("%T", op)
}
