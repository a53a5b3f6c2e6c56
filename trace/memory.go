package trace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecorder keeps flows in memory for inspection. It is the default
// sink in tests and local runs.
type MemoryRecorder struct {
	flows map[string]*Flow
	order []string
	mu    sync.Mutex
}

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{flows: make(map[string]*Flow)}
}

// StartFlow opens a new flow.
func (r *MemoryRecorder) StartFlow(_ context.Context, name string, inputs map[string]any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New().String()
	r.flows[id] = &Flow{
		ID:        id,
		Name:      name,
		StartTime: time.Now(),
		Inputs:    inputs,
		Status:    StatusIncomplete,
	}
	r.order = append(r.order, id)
	return id, nil
}

// RecordSpan appends a span to the flow.
func (r *MemoryRecorder) RecordSpan(_ context.Context, flowID string, span Span) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[flowID]
	if !ok {
		return fmt.Errorf("record span: unknown flow %s", flowID)
	}
	if span.ID == "" {
		span.ID = uuid.New().String()
	}
	flow.Spans = append(flow.Spans, span)
	return nil
}

// EndFlow closes the flow.
func (r *MemoryRecorder) EndFlow(_ context.Context, flowID string, output string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[flowID]
	if !ok {
		return fmt.Errorf("end flow: unknown flow %s", flowID)
	}
	flow.EndTime = time.Now()
	flow.Output = output
	flow.Status = status
	return nil
}

// Flows returns copies of all recorded flows in start order.
func (r *MemoryRecorder) Flows() []Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Flow, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyFlow(r.flows[id]))
	}
	return out
}

// Flow returns a copy of one flow by id.
func (r *MemoryRecorder) Flow(id string) (Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow, ok := r.flows[id]
	if !ok {
		return Flow{}, false
	}
	return copyFlow(flow), true
}

func copyFlow(flow *Flow) Flow {
	out := *flow
	out.Spans = make([]Span, len(flow.Spans))
	copy(out.Spans, flow.Spans)
	return out
}

// NopRecorder discards everything.
type NopRecorder struct{}

// StartFlow returns a fresh id and records nothing.
func (NopRecorder) StartFlow(context.Context, string, map[string]any) (string, error) {
	return uuid.New().String(), nil
}

// RecordSpan discards the span.
func (NopRecorder) RecordSpan(context.Context, string, Span) error { return nil }

// EndFlow discards the close.
func (NopRecorder) EndFlow(context.Context, string, string, Status) error { return nil }
