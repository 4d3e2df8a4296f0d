// Package telemetry provides OpenTelemetry integration for metrics. It
// enables observability for workflow execution:
//   - Access to the global OpenTelemetry tracer (the engine itself creates no spans)
//   - Prometheus metrics for workflow, node, HTTP and foreach execution
//   - A /metrics endpoint served via the Prometheus exporter
package telemetry
