// Package circuit holds the operation model that callers hand to a backend:
// a closed set of gate, measurement and pragma operations, circuits built from
// them, and multi-circuit measurements that share a constant prefix.
package circuit
