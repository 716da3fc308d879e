package dagtui

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/store"
)

// CauseUpdate is a partial update of a cause. Nil fields are left unchanged.
type CauseUpdate struct {
	Title       *string
	Description *string
	CausedBy    *[]string
	Causes      *[]string
	Probability *float64
	Severity    *int
}

// OutcomeUpdate is a partial update of an outcome. Nil fields are left
// unchanged. Probability and Severity may be set directly, but the next
// recomputation overwrites them whenever the outcome has resolvable
// contributors.
type OutcomeUpdate struct {
	Title       *string
	Description *string
	CausedBy    *[]string
	Probability *float64
	Severity    *int
}

// AddCause creates a new cause, propagates its forward links, and
// recomputes all outcomes.
func (e *engine) AddCause(ctx context.Context, c entity.Cause) (*AddResult, error) {
	const op = "Engine.AddCause"
	ctx, span := e.tracer.Start(ctx, op)
	defer span.End()

	if err := c.Validate(); err != nil {
		return nil, NewValidationError(op, errors.Join(ErrInvalidEntity, err))
	}
	if c.ID == "" {
		c.ID = e.idGen()
	}

	if err := e.store.Append(ctx, store.KindCause, c.Record()); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, NewValidationError(op, ErrDuplicateEntity).
				WithContext(map[string]any{"id": c.ID})
		}
		return nil, NewStorageError(op, err)
	}
	e.metrics.mutations.Add(ctx, 1)
	span.SetAttributes(attribute.String("cause.id", c.ID))

	report, linkErr := e.propagateLinks(ctx, c.ID, c.Causes)
	_, recomputeErr := e.RecomputeAll(ctx)

	return &AddResult{ID: c.ID, Relations: report}, errors.Join(linkErr, recomputeErr)
}

// AddOutcome creates a new outcome and recomputes all outcomes.
func (e *engine) AddOutcome(ctx context.Context, o entity.Outcome) (string, error) {
	const op = "Engine.AddOutcome"
	ctx, span := e.tracer.Start(ctx, op)
	defer span.End()

	if err := o.Validate(); err != nil {
		return "", NewValidationError(op, errors.Join(ErrInvalidEntity, err))
	}
	if o.ID == "" {
		o.ID = e.idGen()
	}

	if err := e.store.Append(ctx, store.KindOutcome, o.Record()); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return "", NewValidationError(op, ErrDuplicateEntity).
				WithContext(map[string]any{"id": o.ID})
		}
		return "", NewStorageError(op, err)
	}
	e.metrics.mutations.Add(ctx, 1)
	span.SetAttributes(attribute.String("outcome.id", o.ID))

	_, err := e.RecomputeAll(ctx)
	return o.ID, err
}

// UpdateCause applies a partial update, propagates an updated forward list,
// and recomputes all outcomes.
func (e *engine) UpdateCause(ctx context.Context, id string, upd CauseUpdate) (*RelationReport, error) {
	const op = "Engine.UpdateCause"
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("cause.id", id)))
	defer span.End()

	if _, err := e.GetCause(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]*string{}
	if upd.Title != nil {
		fields[entity.FieldTitle] = upd.Title
	}
	if upd.Description != nil {
		fields[entity.FieldDescription] = upd.Description
	}
	if upd.CausedBy != nil {
		v := entity.JoinIDList(*upd.CausedBy)
		fields[entity.FieldCausedBy] = &v
	}
	if upd.Causes != nil {
		v := entity.JoinIDList(*upd.Causes)
		fields[entity.FieldCauses] = &v
	}
	if upd.Probability != nil {
		v := entity.FormatProbability(*upd.Probability)
		fields[entity.FieldProbability] = &v
	}
	if upd.Severity != nil {
		v := entity.FormatSeverity(*upd.Severity)
		fields[entity.FieldSeverity] = &v
	}

	for field, value := range fields {
		if err := e.store.UpdateField(ctx, store.KindCause, id, field, *value); err != nil {
			return nil, NewStorageError(op, err).
				WithContext(map[string]any{"id": id, "field": field})
		}
	}
	e.metrics.mutations.Add(ctx, 1)

	var report *RelationReport
	var linkErr error
	if upd.Causes != nil {
		report, linkErr = e.propagateLinks(ctx, id, *upd.Causes)
	}

	_, recomputeErr := e.RecomputeAll(ctx)
	return report, errors.Join(linkErr, recomputeErr)
}

// UpdateOutcome applies a partial update and recomputes all outcomes.
func (e *engine) UpdateOutcome(ctx context.Context, id string, upd OutcomeUpdate) error {
	const op = "Engine.UpdateOutcome"
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("outcome.id", id)))
	defer span.End()

	if _, err := e.GetOutcome(ctx, id); err != nil {
		return err
	}

	fields := map[string]string{}
	if upd.Title != nil {
		fields[entity.FieldTitle] = *upd.Title
	}
	if upd.Description != nil {
		fields[entity.FieldDescription] = *upd.Description
	}
	if upd.CausedBy != nil {
		fields[entity.FieldCausedBy] = entity.JoinIDList(*upd.CausedBy)
	}
	if upd.Probability != nil {
		fields[entity.FieldProbability] = entity.FormatProbability(*upd.Probability)
	}
	if upd.Severity != nil {
		fields[entity.FieldSeverity] = entity.FormatSeverity(*upd.Severity)
	}

	for field, value := range fields {
		if err := e.store.UpdateField(ctx, store.KindOutcome, id, field, value); err != nil {
			return NewStorageError(op, err).
				WithContext(map[string]any{"id": id, "field": field})
		}
	}
	e.metrics.mutations.Add(ctx, 1)

	_, err := e.RecomputeAll(ctx)
	return err
}

// DeleteCause removes a cause and recomputes all outcomes. Outcomes whose
// causedBy still references the deleted id simply stop resolving it; an
// outcome left with no resolvable contributors keeps its last values.
func (e *engine) DeleteCause(ctx context.Context, id string) error {
	const op = "Engine.DeleteCause"
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("cause.id", id)))
	defer span.End()

	if err := e.store.DeleteByID(ctx, store.KindCause, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError(op, ErrCauseNotFound).
				WithContext(map[string]any{"id": id})
		}
		return NewStorageError(op, err)
	}
	e.metrics.mutations.Add(ctx, 1)

	_, err := e.RecomputeAll(ctx)
	return err
}

// DeleteOutcome removes an outcome. Forward references from causes are not
// cleaned up; propagation later skips them with a warning.
func (e *engine) DeleteOutcome(ctx context.Context, id string) error {
	const op = "Engine.DeleteOutcome"
	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("outcome.id", id)))
	defer span.End()

	if err := e.store.DeleteByID(ctx, store.KindOutcome, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError(op, ErrOutcomeNotFound).
				WithContext(map[string]any{"id": id})
		}
		return NewStorageError(op, err)
	}
	e.metrics.mutations.Add(ctx, 1)

	_, err := e.RecomputeAll(ctx)
	return err
}

// propagateLinks merges causeID into the causedBy field of each named
// outcome. Propagation is one-way: the outcome side mirrors the cause's
// forward list, never the reverse.
//
// A missing outcome is a warning, not an error; the edge stays recorded on
// the cause side only. A store failure on one outcome does not stop the
// remaining outcomes from being attempted; the failures are joined into the
// returned error.
func (e *engine) propagateLinks(ctx context.Context, causeID string, outcomeIDs []string) (*RelationReport, error) {
	const op = "Engine.propagateLinks"

	report := &RelationReport{}
	if len(outcomeIDs) == 0 {
		return report, nil
	}

	recs, err := e.store.ReadAll(ctx, store.KindOutcome)
	if err != nil {
		return report, NewStorageError(op, err)
	}
	byID := make(map[string]store.Record, len(recs))
	for _, rec := range recs {
		byID[rec.ID()] = rec
	}

	var errs []error
	for _, outcomeID := range outcomeIDs {
		rec, ok := byID[outcomeID]
		if !ok {
			e.logger.Warn("linked outcome not found, skipping",
				"cause_id", causeID,
				"outcome_id", outcomeID)
			report.Missing = append(report.Missing, outcomeID)
			continue
		}

		merged, appended := entity.AppendID(rec[entity.FieldCausedBy], causeID)
		if !appended {
			report.AlreadyLinked = append(report.AlreadyLinked, outcomeID)
			continue
		}

		if err := e.store.UpdateField(ctx, store.KindOutcome, outcomeID, entity.FieldCausedBy, merged); err != nil {
			report.Failed = append(report.Failed, outcomeID)
			errs = append(errs, NewStorageError(op, err).
				WithContext(map[string]any{"outcome_id": outcomeID}))
			continue
		}
		report.Linked = append(report.Linked, outcomeID)
	}

	return report, errors.Join(errs...)
}
