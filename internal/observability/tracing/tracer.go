// Package tracing provides OpenTelemetry tracing for the pipeline.
// Without an installed SDK the tracer is a no-op, so instrumented code paths
// carry no overhead in plain CLI runs.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the cfpscout application.
var tracer = otel.Tracer("cfpscout")

// GetTracer returns the global tracer for creating spans.
// This tracer can be used throughout the application to create new spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "score-conference")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
