// Command tubecast is the CLI entrypoint. It runs the daemon in the
// foreground and talks to a running daemon's HTTP API for job submission,
// approval and inspection. Channel and niche management work directly
// against the store so channels can be configured before the daemon ever
// starts.
package main
