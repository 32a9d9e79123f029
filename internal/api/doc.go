// Package api exposes job submission, approval and inspection.
//
// Service holds the orchestration logic shared by the HTTP surface and the
// CLI: triggering a job enqueues a dispatch ticket after the job record is
// created, and approving a suspended job re-enqueues it with the resume
// flag set so the worker skips straight to the fan-out stage. Server wraps
// Service with a small JSON-over-HTTP API.
package api
