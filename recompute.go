package dagtui

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/store"
)

// RecomputeAll derives every outcome's probability and severity from the
// causes currently resolvable in the store.
//
// For each outcome the causedBy list is parsed and resolved against the
// cause table. Unresolvable ids contribute nothing and are logged at
// warning level. With no resolvable contributors the outcome is skipped
// entirely: no write happens and the last computed values stay in place.
// Otherwise probability becomes the arithmetic mean of contributor
// probabilities and severity the maximum contributor severity, each written
// back as an independent field update only when the stored text differs.
//
// Cyclic references are not detected: a contributor is read at whatever
// value the store holds at call time.
func (e *engine) RecomputeAll(ctx context.Context) (*RecomputeReport, error) {
	const op = "Engine.RecomputeAll"
	ctx, span := e.tracer.Start(ctx, op)
	defer span.End()

	e.metrics.recomputeRuns.Add(ctx, 1)

	causeRecs, err := e.store.ReadAll(ctx, store.KindCause)
	if err != nil {
		wrapped := NewStorageError(op, err)
		span.SetStatus(codes.Error, wrapped.Error())
		return nil, wrapped
	}
	causes := make(map[string]entity.Cause, len(causeRecs))
	for _, rec := range causeRecs {
		causes[rec.ID()] = entity.CauseFromRecord(rec)
	}

	outcomeRecs, err := e.store.ReadAll(ctx, store.KindOutcome)
	if err != nil {
		wrapped := NewStorageError(op, err)
		span.SetStatus(codes.Error, wrapped.Error())
		return nil, wrapped
	}

	report := &RecomputeReport{Outcomes: len(outcomeRecs)}
	var errs []error

	for _, rec := range outcomeRecs {
		outcomeID := rec.ID()

		var sum float64
		var maxSeverity int
		count := 0
		for _, causeID := range entity.ParseIDList(rec[entity.FieldCausedBy]) {
			c, ok := causes[causeID]
			if !ok {
				e.logger.Warn("contributing cause not found, excluded from aggregation",
					"outcome_id", outcomeID,
					"cause_id", causeID)
				report.UnresolvedRefs = append(report.UnresolvedRefs, causeID)
				continue
			}
			sum += c.Probability
			if count == 0 || c.Severity > maxSeverity {
				maxSeverity = c.Severity
			}
			count++
		}

		if count == 0 {
			report.Skipped++
			continue
		}
		report.Recomputed++

		updates := []struct {
			field string
			value string
		}{
			{entity.FieldProbability, entity.FormatProbability(sum / float64(count))},
			{entity.FieldSeverity, entity.FormatSeverity(maxSeverity)},
		}
		for _, u := range updates {
			if rec[u.field] == u.value {
				continue
			}
			if err := e.store.UpdateField(ctx, store.KindOutcome, outcomeID, u.field, u.value); err != nil {
				errs = append(errs, NewStorageError(op, err).
					WithContext(map[string]any{"outcome_id": outcomeID, "field": u.field}))
				continue
			}
			report.FieldWrites++
		}
	}

	e.metrics.fieldWrites.Add(ctx, int64(report.FieldWrites))
	span.SetAttributes(
		attribute.Int("outcomes.examined", report.Outcomes),
		attribute.Int("outcomes.recomputed", report.Recomputed),
		attribute.Int("outcomes.skipped", report.Skipped),
		attribute.Int("outcomes.field_writes", report.FieldWrites),
	)

	err = errors.Join(errs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return report, err
}
