// Package dispatch provides the bounded hand-off queue between job
// submitters and the worker loop.
//
// The queue applies "wait" backpressure: submitters block while the queue is
// full instead of dropping work or growing without bound. Resume requests
// travel through the same queue as fresh submissions so a job only ever has
// one owner driving it at a time.
package dispatch
