package backend

import (
	"encoding/json"
	"fmt"
)

// BitRegister holds one boolean vector per shot.
type BitRegister [][]bool

// FloatRegister holds one float vector per shot.
type FloatRegister [][]float64

// ComplexRegister holds one complex vector per shot.
type ComplexRegister [][]complex128

// Registers are the classical output registers of a run, keyed by register name.
type Registers struct {
	Bits      map[string]BitRegister     `json:"bit_registers"`
	Floats    map[string]FloatRegister   `json:"float_registers"`
	Complexes map[string]ComplexRegister `json:"complex_registers"`
}

// NewRegisters returns empty, non-nil register maps.
func NewRegisters() Registers {
	return Registers{
		Bits:      make(map[string]BitRegister),
		Floats:    make(map[string]FloatRegister),
		Complexes: make(map[string]ComplexRegister),
	}
}

// Merge appends other into r. Entries of a register that already exists in r
// are appended after r's entries; registers only present in other are added.
func (r *Registers) Merge(other Registers) {
	if r.Bits == nil {
		r.Bits = make(map[string]BitRegister)
	}
	if r.Floats == nil {
		r.Floats = make(map[string]FloatRegister)
	}
	if r.Complexes == nil {
		r.Complexes = make(map[string]ComplexRegister)
	}
	for name, reg := range other.Bits {
		r.Bits[name] = appendShots(r.Bits[name], reg)
	}
	for name, reg := range other.Floats {
		r.Floats[name] = appendShots(r.Floats[name], reg)
	}
	for name, reg := range other.Complexes {
		r.Complexes[name] = appendShots(r.Complexes[name], reg)
	}
}

// appendShots never returns nil, so registers that exist but are empty
// still encode as [].
func appendShots[S ~[]E, E any](dst, src S) S {
	if dst == nil {
		dst = make(S, 0, len(src))
	}
	return append(dst, src...)
}

// MarshalJSON encodes complex values as [re, im] pairs.
func (c ComplexRegister) MarshalJSON() ([]byte, error) {
	return json.Marshal(ComplexPairs(c))
}

// UnmarshalJSON decodes [re, im] pairs.
func (c *ComplexRegister) UnmarshalJSON(data []byte) error {
	var pairs [][][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("decode complex register: %w", err)
	}
	*c = FromComplexPairs(pairs)
	return nil
}

// ComplexPairs converts a complex register into [re, im] pairs.
func ComplexPairs(c ComplexRegister) [][][2]float64 {
	out := make([][][2]float64, len(c))
	for i, shot := range c {
		out[i] = make([][2]float64, len(shot))
		for j, v := range shot {
			out[i][j] = [2]float64{real(v), imag(v)}
		}
	}
	return out
}

// FromComplexPairs is the inverse of ComplexPairs.
func FromComplexPairs(pairs [][][2]float64) ComplexRegister {
	out := make(ComplexRegister, len(pairs))
	for i, shot := range pairs {
		out[i] = make([]complex128, len(shot))
		for j, p := range shot {
			out[i][j] = complex(p[0], p[1])
		}
	}
	return out
}
