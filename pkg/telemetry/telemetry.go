// Package telemetry provides an OpenTelemetry-backed implementation of the
// inference.EventSink boundary (spec §5: EventSink is an external
// collaborator, out of scope to specify fully — this package supplies one
// concrete, production-shaped implementation). inference.NewService does not
// construct it; a caller passes an OTelSink in explicitly.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/RunanywhereAI/sdks-sub010/pkg/inference"
)

// OTelSink records inference.Service lifecycle events as OpenTelemetry
// metrics: a counter per event kind, labeled by model id and framework.
type OTelSink struct {
	eventsTotal metric.Int64Counter
}

// NewOTelSink constructs a sink against the given Meter (typically
// obtained from a configured MeterProvider; tests can pass the global
// no-op meter).
func NewOTelSink(meter metric.Meter) (*OTelSink, error) {
	counter, err := meter.Int64Counter(
		"runanywhere.inference.events",
		metric.WithDescription("Count of inference service lifecycle events by kind."),
	)
	if err != nil {
		return nil, err
	}
	return &OTelSink{eventsTotal: counter}, nil
}

// Emit implements inference.EventSink.
func (s *OTelSink) Emit(e inference.Event) {
	attrs := []attribute.KeyValue{
		attribute.String("kind", string(e.Kind)),
		attribute.String("model_id", e.ModelID),
		attribute.String("framework", string(e.Framework)),
	}
	if e.Err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}
	s.eventsTotal.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
