// Package store persists channels, niches, prompt templates, and jobs in
// SQLite and exposes helpers for driving the job lifecycle.
//
// The Store manages database connections, schema initialization, and the
// status transitions mirrored by the worker. Jobs capture progress, the
// script durability checkpoint, and failure output so the pipeline can
// suspend and resume without additional state.
//
// Last-write-wins semantics are sufficient here: a job is only ever mutated
// by the single worker that owns it. Schema changes bump the version in
// schema.go; users clear the database to adopt the new schema.
package store
