package trace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestOTelRecorderLifecycle(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	r := NewOTelRecorder(tracer)
	ctx := context.Background()

	id, err := r.StartFlow(ctx, "qa-agent", map[string]any{"input": "hi"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	err = r.RecordSpan(ctx, id, Span{
		Kind:      SpanModel,
		Name:      "model_call",
		StartTime: time.Now().Add(-time.Second),
		EndTime:   time.Now(),
		Output:    "ok",
	})
	require.NoError(t, err)

	require.NoError(t, r.EndFlow(ctx, id, "done", StatusComplete))

	// The flow is closed: further activity on its id fails.
	assert.Error(t, r.RecordSpan(ctx, id, Span{Kind: SpanTool}))
	assert.Error(t, r.EndFlow(ctx, id, "", StatusComplete))
}

func TestOTelRecorderUnknownFlow(t *testing.T) {
	r := NewOTelRecorder(noop.NewTracerProvider().Tracer("test"))
	assert.Error(t, r.RecordSpan(context.Background(), "missing", Span{}))
}

func TestCompactJSON(t *testing.T) {
	assert.Equal(t, "", compactJSON(nil))
	assert.Equal(t, `{"a":1}`, compactJSON(map[string]any{"a": 1}))
	assert.Equal(t, `"text"`, compactJSON("text"))
}
