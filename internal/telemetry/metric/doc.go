// Package metric provides Prometheus metrics for the ipadmin HTTP client.
//
//   - prometheus.go: Registry, collectors and exposition
//
// Metrics include request counts by method and status, request latency,
// and token refresh attempts by outcome. The CLI has no listener; the
// registry is dumped in text exposition format by "system metrics".
package metric
