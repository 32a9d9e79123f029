// Package pipeline drives a job through the fixed sequence of generation
// stages: research, script writing, the human approval gate, the parallel
// fan-out (SEO metadata, visual prompts, audio synthesis), and final
// assembly.
//
// The Runner owns the stage order, progress checkpoints, and the typed
// per-run Context that carries intermediate artifacts between stages. Every
// provider call goes through the retry executor; stage failures bubble to
// the worker, which marks the job failed. The approval gate suspends a run
// by persisting WaitingApproval and returning without error; resume re-enters
// at the fan-out stage with the (possibly edited) persisted script.
package pipeline
