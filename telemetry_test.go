package dagtui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/store"
)

func TestEngine_TracesRecomputation(t *testing.T) {
	ctx := context.Background()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	eng, err := NewEngine(store.NewMemoryStore(),
		WithLogger(testLogger(t)),
		WithTracer(tp.Tracer("dagtui-test")),
	)
	require.NoError(t, err)

	_, err = eng.AddOutcome(ctx, *entity.NewOutcome("X", "").WithID("X"))
	require.NoError(t, err)
	_, err = eng.AddCause(ctx, *entity.NewCause("A", "").
		WithID("A").
		WithCauses("X").
		WithProbability(40).
		WithSeverity(3))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)

	names := make(map[string]int)
	for _, s := range spans {
		names[s.Name]++
	}
	assert.NotZero(t, names["Engine.AddOutcome"])
	assert.NotZero(t, names["Engine.AddCause"])
	// Each mutation triggers a recomputation run.
	assert.GreaterOrEqual(t, names["Engine.RecomputeAll"], 2)
}
