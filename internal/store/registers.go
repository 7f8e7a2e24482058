package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/HQSquantumsimulations/qoqo-aqt/internal/backend"
)

// registersRecord is the stored form of backend.Registers. Complex values
// are kept as [re, im] pairs.
type registersRecord struct {
	Bits      map[string][][]bool       `msgpack:"bits"`
	Floats    map[string][][]float64    `msgpack:"floats"`
	Complexes map[string][][][2]float64 `msgpack:"complexes"`
}

func encodeRegisters(r *backend.Registers) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	rec := registersRecord{
		Bits:      make(map[string][][]bool, len(r.Bits)),
		Floats:    make(map[string][][]float64, len(r.Floats)),
		Complexes: make(map[string][][][2]float64, len(r.Complexes)),
	}
	for name, reg := range r.Bits {
		rec.Bits[name] = reg
	}
	for name, reg := range r.Floats {
		rec.Floats[name] = reg
	}
	for name, reg := range r.Complexes {
		rec.Complexes[name] = backend.ComplexPairs(reg)
	}
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("encode registers: %w", err)
	}
	return data, nil
}

func decodeRegisters(data []byte) (*backend.Registers, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rec registersRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode registers: %w", err)
	}
	r := backend.NewRegisters()
	for name, reg := range rec.Bits {
		if reg == nil {
			reg = [][]bool{}
		}
		r.Bits[name] = reg
	}
	for name, reg := range rec.Floats {
		if reg == nil {
			reg = [][]float64{}
		}
		r.Floats[name] = reg
	}
	for name, reg := range rec.Complexes {
		r.Complexes[name] = backend.FromComplexPairs(reg)
	}
	return &r, nil
}
