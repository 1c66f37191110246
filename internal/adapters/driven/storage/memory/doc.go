// Package memory provides in-process implementations of driven ports.
// Nothing survives the process; the stores back tests and the
// "memory" storage backend.
package memory
