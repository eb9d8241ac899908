// Package metric provides Prometheus metrics for memkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Collector reading store statistics at scrape time
//
// Metrics include:
//
//   - Connection gauges and counters
//   - Per-command counters and latency histograms
//   - Error counters by kind
//   - Key count
//
// Metrics are exposed at /metrics on the admin listener.
package metric
