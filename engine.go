package dagtui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	mnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tnoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/store"
)

// Engine is the public surface of the causal risk graph engine.
//
// All operations are synchronous and re-read the entity store rather than
// caching: a Get or List immediately after a mutation observes the mutation.
// Every mutating operation triggers a full recomputation of outcome
// probabilities and severities before it returns.
type Engine interface {
	// AddCause creates a new cause. If the cause carries no id one is
	// assigned. A non-empty Causes list is propagated to the named outcomes'
	// causedBy fields. The returned result reports the assigned id and the
	// per-outcome link outcome; a partial propagation failure is returned
	// as an error alongside the result, never masked.
	AddCause(ctx context.Context, c entity.Cause) (*AddResult, error)

	// AddOutcome creates a new outcome and returns its id.
	AddOutcome(ctx context.Context, o entity.Outcome) (string, error)

	// UpdateCause applies a partial update to an existing cause. Unset
	// fields are left unchanged. An updated Causes list is propagated to
	// the named outcomes; the returned report is nil when Causes was not
	// part of the update.
	UpdateCause(ctx context.Context, id string, upd CauseUpdate) (*RelationReport, error)

	// UpdateOutcome applies a partial update to an existing outcome.
	// Unset fields are left unchanged. Editing CausedBy directly does not
	// reciprocally update any cause's forward list.
	UpdateOutcome(ctx context.Context, id string, upd OutcomeUpdate) error

	// DeleteCause removes a cause by id. Outcomes referencing it are
	// recomputed from their remaining resolvable contributors.
	DeleteCause(ctx context.Context, id string) error

	// DeleteOutcome removes an outcome by id.
	DeleteOutcome(ctx context.Context, id string) error

	// GetCause returns the cause with the given id. Lookup is by exact,
	// case-sensitive match.
	GetCause(ctx context.Context, id string) (entity.Cause, error)

	// GetOutcome returns the outcome with the given id.
	GetOutcome(ctx context.Context, id string) (entity.Outcome, error)

	// ListCauses returns all causes in store order.
	ListCauses(ctx context.Context) ([]entity.Cause, error)

	// ListOutcomes returns all outcomes in store order.
	ListOutcomes(ctx context.Context) ([]entity.Outcome, error)

	// RecomputeAll derives every outcome's probability and severity from
	// its currently resolvable contributing causes. It is idempotent:
	// a second run with no intervening mutation writes nothing.
	RecomputeAll(ctx context.Context) (*RecomputeReport, error)
}

// AddResult reports the outcome of an AddCause operation.
type AddResult struct {
	// ID is the id of the created cause.
	ID string

	// Relations reports the reverse-link propagation per named outcome.
	Relations *RelationReport
}

// RelationReport describes the per-outcome result of propagating a cause's
// forward links. Partial success is reported, not collapsed into a single
// verdict: a missing outcome does not prevent the remaining outcomes from
// being linked.
type RelationReport struct {
	// Linked lists outcomes whose causedBy field gained the cause id.
	Linked []string

	// AlreadyLinked lists outcomes that already contained the cause id;
	// the append is deduplicated by exact token.
	AlreadyLinked []string

	// Missing lists named outcome ids with no matching row. The edge stays
	// recorded on the cause side only.
	Missing []string

	// Failed lists outcomes whose store update failed. The errors are
	// returned alongside the report.
	Failed []string
}

// RecomputeReport summarizes a RecomputeAll run.
type RecomputeReport struct {
	// Outcomes is the number of outcome rows examined.
	Outcomes int

	// Recomputed is the number of outcomes with at least one resolvable
	// contributor.
	Recomputed int

	// Skipped is the number of outcomes left untouched because no
	// contributor resolved; they keep their last computed values.
	Skipped int

	// FieldWrites is the number of field updates written. Unchanged
	// derived values are not rewritten, so an idempotent re-run reports 0.
	FieldWrites int

	// UnresolvedRefs lists contributor ids that were referenced by some
	// outcome but not found among the causes. They contribute nothing.
	UnresolvedRefs []string
}

// engine is the default Engine implementation.
type engine struct {
	store   store.EntityStore
	logger  *slog.Logger
	tracer  trace.Tracer
	idGen   func() string
	metrics engineMetrics
}

// engineMetrics holds the OpenTelemetry instruments recorded by the engine.
type engineMetrics struct {
	mutations     metric.Int64Counter
	recomputeRuns metric.Int64Counter
	fieldWrites   metric.Int64Counter
}

// NewEngine creates an Engine backed by the given entity store.
//
// Example:
//
//	eng, err := dagtui.NewEngine(store.NewMemoryStore(),
//	    dagtui.WithLogger(logger),
//	    dagtui.WithTracer(tracer),
//	)
func NewEngine(st store.EntityStore, opts ...EngineOption) (Engine, error) {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if cfg.tracer == nil {
		cfg.tracer = tnoop.NewTracerProvider().Tracer("dagtui")
	}
	meter := cfg.meter
	if meter == nil {
		meter = mnoop.NewMeterProvider().Meter("dagtui")
	}
	if cfg.idGen == nil {
		cfg.idGen = uuid.NewString
	}

	metrics, err := newEngineMetrics(meter)
	if err != nil {
		return nil, NewInternalError("NewEngine", err)
	}

	return &engine{
		store:   st,
		logger:  cfg.logger,
		tracer:  cfg.tracer,
		idGen:   cfg.idGen,
		metrics: metrics,
	}, nil
}

func newEngineMetrics(meter metric.Meter) (engineMetrics, error) {
	var m engineMetrics
	var err error

	m.mutations, err = meter.Int64Counter("dagtui.engine.mutations",
		metric.WithDescription("Number of cause and outcome mutations applied"))
	if err != nil {
		return m, fmt.Errorf("create mutations counter: %w", err)
	}

	m.recomputeRuns, err = meter.Int64Counter("dagtui.engine.recompute_runs",
		metric.WithDescription("Number of full outcome recomputation runs"))
	if err != nil {
		return m, fmt.Errorf("create recompute counter: %w", err)
	}

	m.fieldWrites, err = meter.Int64Counter("dagtui.engine.field_writes",
		metric.WithDescription("Number of derived field updates written by recomputation"))
	if err != nil {
		return m, fmt.Errorf("create field writes counter: %w", err)
	}

	return m, nil
}

// GetCause returns the cause with the given id.
func (e *engine) GetCause(ctx context.Context, id string) (entity.Cause, error) {
	const op = "Engine.GetCause"

	causes, err := e.ListCauses(ctx)
	if err != nil {
		return entity.Cause{}, err
	}
	for _, c := range causes {
		if c.ID == id {
			return c, nil
		}
	}
	return entity.Cause{}, NewNotFoundError(op, ErrCauseNotFound).
		WithContext(map[string]any{"id": id})
}

// GetOutcome returns the outcome with the given id.
func (e *engine) GetOutcome(ctx context.Context, id string) (entity.Outcome, error) {
	const op = "Engine.GetOutcome"

	outcomes, err := e.ListOutcomes(ctx)
	if err != nil {
		return entity.Outcome{}, err
	}
	for _, o := range outcomes {
		if o.ID == id {
			return o, nil
		}
	}
	return entity.Outcome{}, NewNotFoundError(op, ErrOutcomeNotFound).
		WithContext(map[string]any{"id": id})
}

// ListCauses returns all causes in store order. The store is re-read on
// every call; there is no cache to go stale.
func (e *engine) ListCauses(ctx context.Context) ([]entity.Cause, error) {
	recs, err := e.store.ReadAll(ctx, store.KindCause)
	if err != nil {
		return nil, NewStorageError("Engine.ListCauses", err)
	}
	causes := make([]entity.Cause, 0, len(recs))
	for _, rec := range recs {
		causes = append(causes, entity.CauseFromRecord(rec))
	}
	return causes, nil
}

// ListOutcomes returns all outcomes in store order.
func (e *engine) ListOutcomes(ctx context.Context) ([]entity.Outcome, error) {
	recs, err := e.store.ReadAll(ctx, store.KindOutcome)
	if err != nil {
		return nil, NewStorageError("Engine.ListOutcomes", err)
	}
	outcomes := make([]entity.Outcome, 0, len(recs))
	for _, rec := range recs {
		outcomes = append(outcomes, entity.OutcomeFromRecord(rec))
	}
	return outcomes, nil
}
