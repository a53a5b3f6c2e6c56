package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTelRecorder bridges flows onto an OpenTelemetry tracer: each flow
// becomes a root span, each recorded Span a timed child span. Exporter and
// sampling configuration belong to the host's tracer provider.
type OTelRecorder struct {
	tracer oteltrace.Tracer
	open   map[string]openFlow
	mu     sync.Mutex
}

type openFlow struct {
	ctx  context.Context
	span oteltrace.Span
}

// NewOTelRecorder creates a recorder emitting to the given tracer.
func NewOTelRecorder(tracer oteltrace.Tracer) *OTelRecorder {
	return &OTelRecorder{
		tracer: tracer,
		open:   make(map[string]openFlow),
	}
}

// StartFlow opens a root span for the flow.
func (r *OTelRecorder) StartFlow(ctx context.Context, name string, inputs map[string]any) (string, error) {
	flowCtx, span := r.tracer.Start(ctx, name,
		oteltrace.WithAttributes(attribute.String("flow.inputs", compactJSON(inputs))),
	)

	id := uuid.New().String()
	r.mu.Lock()
	r.open[id] = openFlow{ctx: flowCtx, span: span}
	r.mu.Unlock()
	return id, nil
}

// RecordSpan emits a child span carrying the recorded timings.
func (r *OTelRecorder) RecordSpan(_ context.Context, flowID string, s Span) error {
	r.mu.Lock()
	flow, ok := r.open[flowID]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("record span: unknown flow %s", flowID)
	}

	_, span := r.tracer.Start(flow.ctx, s.Name,
		oteltrace.WithTimestamp(s.StartTime),
		oteltrace.WithAttributes(
			attribute.String("span.kind", string(s.Kind)),
			attribute.String("span.inputs", compactJSON(s.Inputs)),
			attribute.String("span.output", s.Output),
		),
	)
	if s.Error != "" {
		span.SetStatus(codes.Error, s.Error)
	}
	span.End(oteltrace.WithTimestamp(s.EndTime))
	return nil
}

// EndFlow closes the root span.
func (r *OTelRecorder) EndFlow(_ context.Context, flowID string, output string, status Status) error {
	r.mu.Lock()
	flow, ok := r.open[flowID]
	delete(r.open, flowID)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("end flow: unknown flow %s", flowID)
	}

	flow.span.SetAttributes(
		attribute.String("flow.output", output),
		attribute.String("flow.status", string(status)),
	)
	if status == StatusError {
		flow.span.SetStatus(codes.Error, "flow failed")
	}
	flow.span.End()
	return nil
}

func compactJSON(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
