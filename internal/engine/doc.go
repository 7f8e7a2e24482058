// Package engine provides the asynchronous run engine. It resolves a backend
// through the registry, executes every circuit of a measurement in order,
// records each execution event in the store and on the event broker, and
// writes the merged registers or the classified error back to the run.
package engine
