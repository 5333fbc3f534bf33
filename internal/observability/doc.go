// Package observability groups the cross-cutting instrumentation for the
// pipeline: structured logging, Prometheus metrics, and OpenTelemetry
// tracing. Each concern lives in its own subpackage.
package observability
