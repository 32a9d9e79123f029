// Package worker runs the single consumer loop that drains the dispatch
// queue and executes jobs one at a time.
//
// The loop is an error boundary: a failed pipeline run marks its job
// failed and the loop moves on, while infrastructure errors (queue closed,
// store unreachable) back off briefly instead of crashing the daemon. Jobs
// therefore never execute concurrently, and a suspended job only re-enters
// the loop through a new dispatch ticket.
package worker
