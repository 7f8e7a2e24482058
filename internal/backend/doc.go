// Package backend defines the interface that quantum execution backends
// implement, together with the types exchanged between callers and backends:
// run specifications, execution events, output registers and the error
// taxonomy shared by all backends.
package backend
