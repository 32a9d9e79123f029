// Package notifications delivers job lifecycle events via pluggable
// notifiers.
//
// The default implementation publishes to ntfy using the topic configured
// in config.toml and gracefully degrades to a no-op when notifications are
// disabled. Event categories (jobs, approvals, errors) can be toggled
// individually so an operator can subscribe to approval requests without
// the per-job chatter.
package notifications
