package circuit

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OperationSpec is the serialized form of an operation inside a circuit
// document. Op selects the operation; the remaining fields are read as needed.
type OperationSpec struct {
	Op                   string      `json:"op" yaml:"op"`
	Qubit                int         `json:"qubit,omitempty" yaml:"qubit,omitempty"`
	Control              int         `json:"control,omitempty" yaml:"control,omitempty"`
	Target               int         `json:"target,omitempty" yaml:"target,omitempty"`
	Theta                float64     `json:"theta,omitempty" yaml:"theta,omitempty"`
	Readout              string      `json:"readout,omitempty" yaml:"readout,omitempty"`
	ReadoutIndex         int         `json:"readout_index,omitempty" yaml:"readout_index,omitempty"`
	NumberMeasurements   int         `json:"number_measurements,omitempty" yaml:"number_measurements,omitempty"`
	QubitMapping         map[int]int `json:"qubit_mapping,omitempty" yaml:"qubit_mapping,omitempty"`
	Name                 string      `json:"name,omitempty" yaml:"name,omitempty"`
	Length               int         `json:"length,omitempty" yaml:"length,omitempty"`
	IsOutput             bool        `json:"is_output,omitempty" yaml:"is_output,omitempty"`
	NoiseCoefficient     float64     `json:"noise_coefficient,omitempty" yaml:"noise_coefficient,omitempty"`
	Qubits               []int       `json:"qubits,omitempty" yaml:"qubits,omitempty"`
	ExecutionTime        float64     `json:"execution_time,omitempty" yaml:"execution_time,omitempty"`
	Phase                float64     `json:"phase,omitempty" yaml:"phase,omitempty"`
	Input                float64     `json:"input,omitempty" yaml:"input,omitempty"`
	Index                int         `json:"index,omitempty" yaml:"index,omitempty"`
	Value                bool        `json:"value,omitempty" yaml:"value,omitempty"`
	ReorderingDictionary map[int]int `json:"reordering_dictionary,omitempty" yaml:"reordering_dictionary,omitempty"`
}

// ErrUnknownOperation is returned when a document names an operation that
// does not exist in this package.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation converts the spec into its concrete operation.
func (s OperationSpec) Operation() (Operation, error) {
	switch s.Op {
	case NameRotateX:
		return RotateX{Qubit: s.Qubit, Theta: s.Theta}, nil
	case NameRotateY:
		return RotateY{Qubit: s.Qubit, Theta: s.Theta}, nil
	case NameRotateZ:
		return RotateZ{Qubit: s.Qubit, Theta: s.Theta}, nil
	case NamePauliX:
		return PauliX{Qubit: s.Qubit}, nil
	case NamePauliY:
		return PauliY{Qubit: s.Qubit}, nil
	case NamePauliZ:
		return PauliZ{Qubit: s.Qubit}, nil
	case NameHadamard:
		return Hadamard{Qubit: s.Qubit}, nil
	case NameCNOT:
		return CNOT{Control: s.Control, Target: s.Target}, nil
	case NameMolmerSorensenXX:
		return MolmerSorensenXX{Control: s.Control, Target: s.Target}, nil
	case NameVariableMSXX:
		return VariableMSXX{Control: s.Control, Target: s.Target, Theta: s.Theta}, nil
	case NameMeasureQubit:
		return MeasureQubit{Qubit: s.Qubit, Readout: s.Readout, ReadoutIndex: s.ReadoutIndex}, nil
	case NamePragmaRepeatedMeasurement:
		return PragmaRepeatedMeasurement{Readout: s.Readout, NumberMeasurements: s.NumberMeasurements, QubitMapping: s.QubitMapping}, nil
	case NamePragmaSetNumberOfMeasurements:
		return PragmaSetNumberOfMeasurements{NumberMeasurements: s.NumberMeasurements, Readout: s.Readout}, nil
	case NamePragmaBoostNoise:
		return PragmaBoostNoise{NoiseCoefficient: s.NoiseCoefficient}, nil
	case NamePragmaStopParallelBlock:
		return PragmaStopParallelBlock{Qubits: s.Qubits, ExecutionTime: s.ExecutionTime}, nil
	case NamePragmaGlobalPhase:
		return PragmaGlobalPhase{Phase: s.Phase}, nil
	case NamePragmaStartDecompositionBlock:
		return PragmaStartDecompositionBlock{Qubits: s.Qubits, ReorderingDictionary: s.ReorderingDictionary}, nil
	case NamePragmaStopDecompositionBlock:
		return PragmaStopDecompositionBlock{Qubits: s.Qubits}, nil
	case NameDefinitionBit:
		return DefinitionBit{Name: s.Name, Length: s.Length, IsOutput: s.IsOutput}, nil
	case NameDefinitionFloat:
		return DefinitionFloat{Name: s.Name, Length: s.Length, IsOutput: s.IsOutput}, nil
	case NameDefinitionComplex:
		return DefinitionComplex{Name: s.Name, Length: s.Length, IsOutput: s.IsOutput}, nil
	case NameInputSymbolic:
		return InputSymbolic{Name: s.Name, Input: s.Input}, nil
	case NameInputBit:
		return InputBit{Name: s.Name, Index: s.Index, Value: s.Value}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOperation, s.Op)
	}
}

// FromSpecs converts a list of operation specs into a circuit.
func FromSpecs(specs []OperationSpec) (Circuit, error) {
	c := make(Circuit, 0, len(specs))
	for i, s := range specs {
		op, err := s.Operation()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		c = append(c, op)
	}
	return c, nil
}

// Document is a circuit file. It holds either a single Circuit or a
// measurement made of an optional ConstantCircuit and several Circuits.
type Document struct {
	Circuit         []OperationSpec   `json:"circuit,omitempty" yaml:"circuit,omitempty"`
	ConstantCircuit []OperationSpec   `json:"constant_circuit,omitempty" yaml:"constant_circuit,omitempty"`
	Circuits        [][]OperationSpec `json:"circuits,omitempty" yaml:"circuits,omitempty"`
}

// ErrEmptyDocument is returned when a document contains no circuit.
var ErrEmptyDocument = errors.New("document contains no circuit")

// Measurement converts the document into a measurement. A document with a
// single circuit becomes a measurement with one circuit and no constant part.
func (d Document) Measurement() (Measurement, error) {
	if len(d.Circuit) == 0 && len(d.Circuits) == 0 {
		return Measurement{}, ErrEmptyDocument
	}

	var m Measurement
	if len(d.ConstantCircuit) > 0 {
		constant, err := FromSpecs(d.ConstantCircuit)
		if err != nil {
			return Measurement{}, fmt.Errorf("constant circuit: %w", err)
		}
		m.ConstantCircuit = &constant
	}

	if len(d.Circuit) > 0 {
		c, err := FromSpecs(d.Circuit)
		if err != nil {
			return Measurement{}, fmt.Errorf("circuit: %w", err)
		}
		m.Circuits = append(m.Circuits, c)
	}
	for i, specs := range d.Circuits {
		c, err := FromSpecs(specs)
		if err != nil {
			return Measurement{}, fmt.Errorf("circuit %d: %w", i, err)
		}
		m.Circuits = append(m.Circuits, c)
	}
	return m, nil
}

// Parse decodes a YAML or JSON circuit document.
func Parse(data []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse circuit document: %w", err)
	}
	return d, nil
}

// LoadFile reads and parses the circuit document at path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read circuit document: %w", err)
	}
	return Parse(data)
}
