package circuit

// Circuit is an ordered list of operations.
type Circuit []Operation

// New returns a circuit holding ops in order.
func New(ops ...Operation) Circuit {
	return append(Circuit(nil), ops...)
}

// Add appends ops and returns the circuit, so calls can be chained.
func (c Circuit) Add(ops ...Operation) Circuit {
	return append(c, ops...)
}

// Concat returns a new circuit with c followed by other. Neither input is modified.
func (c Circuit) Concat(other Circuit) Circuit {
	out := make(Circuit, 0, len(c)+len(other))
	out = append(out, c...)
	return append(out, other...)
}

// Measurement is a set of circuits that are executed separately and whose
// output registers are merged. ConstantCircuit, when set, is prepended to
// every circuit in Circuits.
type Measurement struct {
	ConstantCircuit *Circuit
	Circuits        []Circuit
}

// Expanded returns the circuits that are actually executed, in order: each
// entry of Circuits prefixed with the constant circuit.
func (m Measurement) Expanded() []Circuit {
	out := make([]Circuit, len(m.Circuits))
	for i, c := range m.Circuits {
		if m.ConstantCircuit != nil {
			out[i] = m.ConstantCircuit.Concat(c)
		} else {
			out[i] = New(c...)
		}
	}
	return out
}

// Repetitions returns the shot count requested by the circuit's measurement
// operations. The last measurement wins; a MeasureQubit counts as one shot
// and a circuit without measurement requests none.
func (c Circuit) Repetitions() int {
	shots := 0
	for _, op := range c {
		switch o := op.(type) {
		case MeasureQubit:
			shots = 1
		case PragmaRepeatedMeasurement:
			shots = o.NumberMeasurements
		case PragmaSetNumberOfMeasurements:
			shots = o.NumberMeasurements
		}
	}
	return shots
}

// Repetitions returns the total shot count over all expanded circuits.
func (m Measurement) Repetitions() int {
	total := 0
	for _, c := range m.Expanded() {
		total += c.Repetitions()
	}
	return total
}
