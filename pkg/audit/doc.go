// Package audit records access-control decisions as a structured audit
// trail.
//
// The audit trail is an observability side channel only: it never
// influences a decision, and a failure to record never fails the mediated
// operation. Records are enqueued without blocking the hook path and
// written asynchronously by a background worker to a storage backend
// (SQLite for durable single-node deployments, memory for tests).
//
// Retention is handled by a Pruner that deletes records older than the
// configured horizon, optionally driven by a cron Scheduler.
package audit
