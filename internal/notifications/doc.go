// Package notifications reports merge decisions to an external HTTP sink.
//
// The sink is strictly best-effort: its liveness endpoint is probed before
// every update, and a failed probe or request degrades to "notification
// skipped" without ever aborting the resolution flow.
package notifications
