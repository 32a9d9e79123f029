// Package retry wraps fallible provider calls with a classified retry
// policy.
//
// Only failures tagged transient by the services package are retried;
// permanent failures propagate immediately. Exhausted retries surface as a
// StageError carrying the stage identity and last underlying cause, which the
// worker persists into the job's log output.
package retry
