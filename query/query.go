// Package query filters causes and outcomes with CEL expressions.
//
// Expressions see one entity at a time through a fixed set of
// variables and must evaluate to a boolean:
//
//	id          string
//	title       string
//	description string
//	probability double
//	severity    int
//	tier        string  ("low", "medium", "high")
//
// Example expressions:
//
//	probability > 50.0 && severity >= 5
//	tier == "high"
//	title.contains("disk")
package query

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/laskinner/dag-tui/entity"
	"github.com/laskinner/dag-tui/risk"
)

// ErrNotBoolean indicates an expression whose result type is not bool.
var ErrNotBoolean = errors.New("query: expression must evaluate to a boolean")

// Filter is a compiled entity predicate.
type Filter struct {
	program cel.Program
}

// Compile parses and type-checks a CEL expression into a Filter.
func Compile(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("title", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("probability", cel.DoubleType),
		cel.Variable("severity", cel.IntType),
		cel.Variable("tier", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("query: build env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("query: compile %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: got %s", ErrNotBoolean, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("query: program %q: %w", expr, err)
	}
	return &Filter{program: prg}, nil
}

func (f *Filter) eval(vars map[string]any) (bool, error) {
	out, _, err := f.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("query: eval: %w", err)
	}
	match, ok := out.Value().(bool)
	if !ok {
		return false, ErrNotBoolean
	}
	return match, nil
}

// MatchCause reports whether the cause satisfies the filter.
func (f *Filter) MatchCause(c entity.Cause) (bool, error) {
	return f.eval(map[string]any{
		"id":          c.ID,
		"title":       c.Title,
		"description": c.Description,
		"probability": c.Probability,
		"severity":    int64(c.Severity),
		"tier":        risk.Classify(c.Probability).String(),
	})
}

// MatchOutcome reports whether the outcome satisfies the filter.
func (f *Filter) MatchOutcome(o entity.Outcome) (bool, error) {
	return f.eval(map[string]any{
		"id":          o.ID,
		"title":       o.Title,
		"description": o.Description,
		"probability": o.Probability,
		"severity":    int64(o.Severity),
		"tier":        risk.Classify(o.Probability).String(),
	})
}

// Causes returns the causes matching the filter, preserving order.
func (f *Filter) Causes(causes []entity.Cause) ([]entity.Cause, error) {
	var matched []entity.Cause
	for _, c := range causes {
		ok, err := f.MatchCause(c)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Outcomes returns the outcomes matching the filter, preserving order.
func (f *Filter) Outcomes(outcomes []entity.Outcome) ([]entity.Outcome, error) {
	var matched []entity.Outcome
	for _, o := range outcomes {
		ok, err := f.MatchOutcome(o)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, o)
		}
	}
	return matched, nil
}
