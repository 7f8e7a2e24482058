package aqt

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// DecodeSample unpacks an integer-encoded shot. Qubit q is set when bit q of
// sample is set; qubit 0 is the least significant bit.
func DecodeSample(numberQubits int, sample uint64) []bool {
	bits := make([]bool, numberQubits)
	for q := range numberQubits {
		if q >= 64 {
			break
		}
		bits[q] = (sample>>uint(q))%2 == 1
	}
	return bits
}

// shotSample turns one shot entry of a result into an integer sample. A
// single value is already the integer encoding; several values are the
// outcomes of the individual qubits. An empty entry is not a measurement.
func shotSample(values []uint64) (uint64, bool) {
	switch len(values) {
	case 0:
		return 0, false
	case 1:
		return values[0], true
	}
	var sample uint64
	for q, v := range values {
		if v != 0 && q < 64 {
			sample |= 1 << uint(q)
		}
	}
	return sample, true
}

// malformed reports a result that cannot be decoded.
func malformed(format string, args ...any) error {
	return &backend.NetworkError{Msg: fmt.Sprintf(format, args...), Permanent: true}
}

// decodeResult appends the shots of result to the readout bit register of
// regs. Circuits are processed in ascending index order and shots in the
// order received. Nothing is written when readout is not an output register.
// The result must hold exactly shots samples across all circuits.
func decodeResult(numberQubits, shots int, readout string, regs backend.Registers, result map[string][][]uint64) error {
	type indexed struct {
		index int
		shots [][]uint64
	}
	circuits := make([]indexed, 0, len(result))
	for key, entries := range result {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return malformed("malformed result index %q", key)
		}
		circuits = append(circuits, indexed{idx, entries})
	}
	sort.Slice(circuits, func(i, j int) bool {
		return circuits[i].index < circuits[j].index
	})

	samples := make([]uint64, 0, max(shots, 0))
	for _, c := range circuits {
		for i, shot := range c.shots {
			sample, ok := shotSample(shot)
			if !ok {
				return malformed("circuit %d shot %d carries no outcome", c.index, i)
			}
			samples = append(samples, sample)
		}
	}
	if len(samples) != shots {
		return malformed("result has %d shots, want %d", len(samples), shots)
	}

	reg, ok := regs.Bits[readout]
	if !ok {
		return nil
	}
	for _, sample := range samples {
		reg = append(reg, DecodeSample(numberQubits, sample))
	}
	regs.Bits[readout] = reg
	return nil
}
