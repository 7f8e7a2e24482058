package circuit

// Operation is a single instruction of a circuit. The set of implementations
// is closed; backends switch over the concrete types.
type Operation interface {
	// Hqslang returns the canonical operation name, e.g. "RotateX".
	Hqslang() string
	isOperation()
}

// Operation names.
const (
	NameRotateX                       = "RotateX"
	NameRotateY                       = "RotateY"
	NameRotateZ                       = "RotateZ"
	NamePauliX                        = "PauliX"
	NamePauliY                        = "PauliY"
	NamePauliZ                        = "PauliZ"
	NameHadamard                      = "Hadamard"
	NameCNOT                          = "CNOT"
	NameMolmerSorensenXX              = "MolmerSorensenXX"
	NameVariableMSXX                  = "VariableMSXX"
	NameMeasureQubit                  = "MeasureQubit"
	NamePragmaRepeatedMeasurement     = "PragmaRepeatedMeasurement"
	NamePragmaSetNumberOfMeasurements = "PragmaSetNumberOfMeasurements"
	NamePragmaBoostNoise              = "PragmaBoostNoise"
	NamePragmaStopParallelBlock       = "PragmaStopParallelBlock"
	NamePragmaGlobalPhase             = "PragmaGlobalPhase"
	NamePragmaStartDecompositionBlock = "PragmaStartDecompositionBlock"
	NamePragmaStopDecompositionBlock  = "PragmaStopDecompositionBlock"
	NameDefinitionBit                 = "DefinitionBit"
	NameDefinitionFloat               = "DefinitionFloat"
	NameDefinitionComplex             = "DefinitionComplex"
	NameInputSymbolic                 = "InputSymbolic"
	NameInputBit                      = "InputBit"
)

// RotateX rotates a qubit around the x axis by Theta radians.
type RotateX struct {
	Qubit int
	Theta float64
}

// RotateY rotates a qubit around the y axis by Theta radians.
type RotateY struct {
	Qubit int
	Theta float64
}

// RotateZ rotates a qubit around the z axis by Theta radians.
type RotateZ struct {
	Qubit int
	Theta float64
}

// PauliX is the Pauli X gate.
type PauliX struct{ Qubit int }

// PauliY is the Pauli Y gate.
type PauliY struct{ Qubit int }

// PauliZ is the Pauli Z gate.
type PauliZ struct{ Qubit int }

// Hadamard is the Hadamard gate.
type Hadamard struct{ Qubit int }

// CNOT is the controlled NOT gate.
type CNOT struct {
	Control int
	Target  int
}

// MolmerSorensenXX is the fixed-angle Mølmer–Sørensen XX gate.
type MolmerSorensenXX struct {
	Control int
	Target  int
}

// VariableMSXX is the Mølmer–Sørensen XX gate with a variable angle.
type VariableMSXX struct {
	Control int
	Target  int
	Theta   float64
}

// MeasureQubit measures a single qubit into Readout[ReadoutIndex].
type MeasureQubit struct {
	Qubit        int
	Readout      string
	ReadoutIndex int
}

// PragmaRepeatedMeasurement measures all qubits NumberMeasurements times
// into the Readout register. QubitMapping is optional.
type PragmaRepeatedMeasurement struct {
	Readout            string
	NumberMeasurements int
	QubitMapping       map[int]int
}

// PragmaSetNumberOfMeasurements sets the number of shots for Readout.
type PragmaSetNumberOfMeasurements struct {
	NumberMeasurements int
	Readout            string
}

// PragmaBoostNoise scales the noise of the following operations.
type PragmaBoostNoise struct{ NoiseCoefficient float64 }

// PragmaStopParallelBlock ends a block of parallel operations.
type PragmaStopParallelBlock struct {
	Qubits        []int
	ExecutionTime float64
}

// PragmaGlobalPhase adds a global phase to the circuit.
type PragmaGlobalPhase struct{ Phase float64 }

// PragmaStartDecompositionBlock starts a decomposition block.
type PragmaStartDecompositionBlock struct {
	Qubits               []int
	ReorderingDictionary map[int]int
}

// PragmaStopDecompositionBlock ends a decomposition block.
type PragmaStopDecompositionBlock struct{ Qubits []int }

// DefinitionBit declares a classical bit register.
type DefinitionBit struct {
	Name     string
	Length   int
	IsOutput bool
}

// DefinitionFloat declares a classical float register.
type DefinitionFloat struct {
	Name     string
	Length   int
	IsOutput bool
}

// DefinitionComplex declares a classical complex register.
type DefinitionComplex struct {
	Name     string
	Length   int
	IsOutput bool
}

// InputSymbolic assigns a value to a symbolic parameter.
type InputSymbolic struct {
	Name  string
	Input float64
}

// InputBit sets a single bit of a classical bit register.
type InputBit struct {
	Name  string
	Index int
	Value bool
}

func (RotateX) Hqslang() string                       { return NameRotateX }
func (RotateY) Hqslang() string                       { return NameRotateY }
func (RotateZ) Hqslang() string                       { return NameRotateZ }
func (PauliX) Hqslang() string                        { return NamePauliX }
func (PauliY) Hqslang() string                        { return NamePauliY }
func (PauliZ) Hqslang() string                        { return NamePauliZ }
func (Hadamard) Hqslang() string                      { return NameHadamard }
func (CNOT) Hqslang() string                          { return NameCNOT }
func (MolmerSorensenXX) Hqslang() string              { return NameMolmerSorensenXX }
func (VariableMSXX) Hqslang() string                  { return NameVariableMSXX }
func (MeasureQubit) Hqslang() string                  { return NameMeasureQubit }
func (PragmaRepeatedMeasurement) Hqslang() string     { return NamePragmaRepeatedMeasurement }
func (PragmaSetNumberOfMeasurements) Hqslang() string { return NamePragmaSetNumberOfMeasurements }
func (PragmaBoostNoise) Hqslang() string              { return NamePragmaBoostNoise }
func (PragmaStopParallelBlock) Hqslang() string       { return NamePragmaStopParallelBlock }
func (PragmaGlobalPhase) Hqslang() string             { return NamePragmaGlobalPhase }
func (PragmaStartDecompositionBlock) Hqslang() string { return NamePragmaStartDecompositionBlock }
func (PragmaStopDecompositionBlock) Hqslang() string  { return NamePragmaStopDecompositionBlock }
func (DefinitionBit) Hqslang() string                 { return NameDefinitionBit }
func (DefinitionFloat) Hqslang() string               { return NameDefinitionFloat }
func (DefinitionComplex) Hqslang() string             { return NameDefinitionComplex }
func (InputSymbolic) Hqslang() string                 { return NameInputSymbolic }
func (InputBit) Hqslang() string                      { return NameInputBit }

func (RotateX) isOperation()                       {}
func (RotateY) isOperation()                       {}
func (RotateZ) isOperation()                       {}
func (PauliX) isOperation()                        {}
func (PauliY) isOperation()                        {}
func (PauliZ) isOperation()                        {}
func (Hadamard) isOperation()                      {}
func (CNOT) isOperation()                          {}
func (MolmerSorensenXX) isOperation()              {}
func (VariableMSXX) isOperation()                  {}
func (MeasureQubit) isOperation()                  {}
func (PragmaRepeatedMeasurement) isOperation()     {}
func (PragmaSetNumberOfMeasurements) isOperation() {}
func (PragmaBoostNoise) isOperation()              {}
func (PragmaStopParallelBlock) isOperation()       {}
func (PragmaGlobalPhase) isOperation()             {}
func (PragmaStartDecompositionBlock) isOperation() {}
func (PragmaStopDecompositionBlock) isOperation()  {}
func (DefinitionBit) isOperation()                 {}
func (DefinitionFloat) isOperation()               {}
func (DefinitionComplex) isOperation()             {}
func (InputSymbolic) isOperation()                 {}
func (InputBit) isOperation()                      {}
