// Package daemon wires the store, dispatch queue, worker and HTTP API into
// a single long-running process and enforces single-instance execution
// with a file lock.
package daemon
