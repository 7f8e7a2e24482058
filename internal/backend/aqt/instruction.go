package aqt

import (
	"encoding/json"
	"fmt"
)

// Wire operation names.
const (
	OpRZ      = "RZ"
	OpR       = "R"
	OpRXX     = "RXX"
	OpMeasure = "MEASURE"
)

// Instruction is one element of the quantum_circuit array understood by the
// AQT API. Angles are in units of π. Only the fields of the variant named by
// Operation are encoded.
type Instruction struct {
	Operation string
	Phi       float64
	Theta     float64
	Qubit     int
	Qubits    []int
}

// RZ returns a z rotation by phi·π on qubit.
func RZ(phi float64, qubit int) Instruction {
	return Instruction{Operation: OpRZ, Phi: phi, Qubit: qubit}
}

// R returns a rotation by theta·π around the axis at angle phi·π in the xy plane.
func R(phi, theta float64, qubit int) Instruction {
	return Instruction{Operation: OpR, Phi: phi, Theta: theta, Qubit: qubit}
}

// RXX returns an XX interaction of strength theta·π between two qubits.
func RXX(qubits []int, theta float64) Instruction {
	return Instruction{Operation: OpRXX, Qubits: qubits, Theta: theta}
}

// Measure returns the measurement instruction.
func Measure() Instruction {
	return Instruction{Operation: OpMeasure}
}

type wireRZ struct {
	Operation string  `json:"operation"`
	Phi       float64 `json:"phi"`
	Qubit     int     `json:"qubit"`
}

type wireR struct {
	Operation string  `json:"operation"`
	Phi       float64 `json:"phi"`
	Theta     float64 `json:"theta"`
	Qubit     int     `json:"qubit"`
}

type wireRXX struct {
	Operation string  `json:"operation"`
	Qubits    []int   `json:"qubits"`
	Theta     float64 `json:"theta"`
}

type wireMeasure struct {
	Operation string `json:"operation"`
}

// MarshalJSON encodes the instruction with only its variant's fields.
func (in Instruction) MarshalJSON() ([]byte, error) {
	switch in.Operation {
	case OpRZ:
		return json.Marshal(wireRZ{in.Operation, in.Phi, in.Qubit})
	case OpR:
		return json.Marshal(wireR{in.Operation, in.Phi, in.Theta, in.Qubit})
	case OpRXX:
		qubits := in.Qubits
		if qubits == nil {
			qubits = []int{}
		}
		return json.Marshal(wireRXX{in.Operation, qubits, in.Theta})
	case OpMeasure:
		return json.Marshal(wireMeasure{in.Operation})
	default:
		return nil, fmt.Errorf("encode instruction: unknown operation %q", in.Operation)
	}
}

// UnmarshalJSON decodes an instruction and checks that its variant's fields
// are present.
func (in *Instruction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Operation string   `json:"operation"`
		Phi       *float64 `json:"phi"`
		Theta     *float64 `json:"theta"`
		Qubit     *int     `json:"qubit"`
		Qubits    []int    `json:"qubits"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode instruction: %w", err)
	}

	missing := func(field string) error {
		return fmt.Errorf("decode instruction: %s without %s", raw.Operation, field)
	}

	switch raw.Operation {
	case OpRZ:
		if raw.Phi == nil {
			return missing("phi")
		}
		if raw.Qubit == nil {
			return missing("qubit")
		}
		*in = RZ(*raw.Phi, *raw.Qubit)
	case OpR:
		if raw.Phi == nil {
			return missing("phi")
		}
		if raw.Theta == nil {
			return missing("theta")
		}
		if raw.Qubit == nil {
			return missing("qubit")
		}
		*in = R(*raw.Phi, *raw.Theta, *raw.Qubit)
	case OpRXX:
		if raw.Qubits == nil {
			return missing("qubits")
		}
		if raw.Theta == nil {
			return missing("theta")
		}
		*in = RXX(raw.Qubits, *raw.Theta)
	case OpMeasure:
		*in = Measure()
	default:
		return fmt.Errorf("decode instruction: unknown operation %q", raw.Operation)
	}
	return nil
}
