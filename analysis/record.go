// Package analysis aggregates cache_ext benchmark results across repeated
// runs and renders the comparative eviction-policy report.
package analysis

// BenchmarkRecord is one measured run for one policy: a flat mapping from
// metric name to value as decoded from the results file. Keys are whatever
// the benchmark harness wrote; no shape validation happens at load time.
// Consumers pick the metrics they understand and skip records missing them.
type BenchmarkRecord map[string]any
