package aqt

import (
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
	"github.com/HQSquantumsimulations/qoqo-aqt/internal/circuit"
)

// CircuitPayload is one circuit of a submission.
type CircuitPayload struct {
	NumberOfQubits int           `json:"number_of_qubits"`
	QuantumCircuit []Instruction `json:"quantum_circuit"`
	Repetitions    int           `json:"repetitions"`
}

// SubmitPayload holds the circuits of a submission.
type SubmitPayload struct {
	Circuits []CircuitPayload `json:"circuits"`
}

// SubmitRequest is the body of POST submit/{workspace}/{resource}.
type SubmitRequest struct {
	JobType string        `json:"job_type"`
	Label   string        `json:"label"`
	Payload SubmitPayload `json:"payload"`
}

// NewSubmitRequest wraps circuits into a submission body.
func NewSubmitRequest(circuits ...CircuitPayload) SubmitRequest {
	if circuits == nil {
		circuits = []CircuitPayload{}
	}
	return SubmitRequest{
		JobType: JobType,
		Label:   JobLabel,
		Payload: SubmitPayload{Circuits: circuits},
	}
}

// Job is a translated circuit ready for submission, together with what is
// needed to decode its result.
type Job struct {
	Circuit CircuitPayload

	// Readout is the bit register decoded samples are written to.
	Readout string

	// Registers holds an empty entry for every output register the circuit
	// defines.
	Registers backend.Registers
}

// JobBuilder accumulates a Job one operation at a time.
type JobBuilder struct {
	numberQubits int
	instructions []Instruction
	shots        int
	readout      string
	registers    backend.Registers
}

// NewJobBuilder returns a builder for circuits on a device with numberQubits qubits.
func NewJobBuilder(numberQubits int) *JobBuilder {
	return &JobBuilder{
		numberQubits: numberQubits,
		instructions: []Instruction{},
		registers:    backend.NewRegisters(),
	}
}

// Add records op. Measurement operations set the readout register and the
// number of shots; a later measurement overrides an earlier one.
func (b *JobBuilder) Add(op circuit.Operation) error {
	switch o := op.(type) {
	case circuit.MeasureQubit:
		b.readout = o.Readout
		b.shots = 1
	case circuit.PragmaRepeatedMeasurement:
		b.readout = o.Readout
		b.shots = o.NumberMeasurements
	case circuit.PragmaSetNumberOfMeasurements:
		b.readout = o.Readout
		b.shots = o.NumberMeasurements
	case circuit.DefinitionBit:
		if o.IsOutput {
			b.registers.Bits[o.Name] = backend.BitRegister{}
		}
	case circuit.DefinitionFloat:
		if o.IsOutput {
			b.registers.Floats[o.Name] = backend.FloatRegister{}
		}
	case circuit.DefinitionComplex:
		if o.IsOutput {
			b.registers.Complexes[o.Name] = backend.ComplexRegister{}
		}
	}

	in, err := TranslateOperation(op)
	if err != nil {
		return err
	}
	if in != nil {
		b.instructions = append(b.instructions, *in)
	}
	return nil
}

// Job returns the accumulated job.
func (b *JobBuilder) Job() Job {
	instructions := make([]Instruction, len(b.instructions))
	copy(instructions, b.instructions)
	return Job{
		Circuit: CircuitPayload{
			NumberOfQubits: b.numberQubits,
			QuantumCircuit: instructions,
			Repetitions:    b.shots,
		},
		Readout:   b.readout,
		Registers: b.registers,
	}
}

// BuildJob translates c for a device with numberQubits qubits.
func BuildJob(numberQubits int, c circuit.Circuit) (Job, error) {
	b := NewJobBuilder(numberQubits)
	for _, op := range c {
		if err := b.Add(op); err != nil {
			return Job{}, err
		}
	}
	return b.Job(), nil
}
