// Package metrics provides Prometheus metrics for the mediation layer.
//
// Every mediated access decision is observed with its security class and
// outcome, along with trusted-procedure label transitions and per-hook
// dispatch latency. Metrics are an observability side channel only; they
// never influence a decision.
package metrics
