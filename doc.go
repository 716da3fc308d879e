// Package dagtui implements the causal risk graph engine behind the DagTui
// terminal interface.
//
// The graph has two entity kinds. Causes are atomic risk contributors with
// user-supplied probability and severity. Outcomes derive both values from
// the causes feeding them: probability is the arithmetic mean of contributor
// probabilities and severity the maximum contributor severity. The engine
// keeps the cause-outcome adjacency consistent as data is edited and
// recomputes every outcome after each mutation.
//
// # Architecture
//
// The engine is a thin orchestrator over an injected store.EntityStore:
//
//   - Graph model: Get/List operations re-read the store on every call;
//     there is no in-memory cache to invalidate.
//   - Relation maintenance: creating or editing a cause with a non-empty
//     Causes list appends the cause id to each named outcome's causedBy
//     field, deduplicated by exact token.
//   - Aggregation: RecomputeAll derives every outcome's probability and
//     severity from currently resolvable contributors. Unresolvable
//     contributor ids are skipped and logged, never fatal. An outcome with
//     no resolvable contributors keeps its last computed values.
//
// Risk tier classification for display lives in the risk package; store
// backends live under store/...; CEL-based selection in query; snapshot
// rendering in export.
//
// # Usage
//
//	st := store.NewMemoryStore()
//	eng := dagtui.NewEngine(st, dagtui.WithLogger(logger))
//
//	res, err := eng.AddCause(ctx, *entity.NewCause("Disk full", "").
//	    WithCauses("o1").
//	    WithProbability(40).
//	    WithSeverity(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outcome, err := eng.GetOutcome(ctx, "o1")
//	tier := risk.Classify(outcome.Probability)
//
// # Limitations
//
// The engine does not detect cycles: a cause that transitively depends on
// an outcome it contributes to is aggregated with whatever values are
// currently stored (stale-read semantics, not a fixed-point solve).
// Probability and severity outside their nominal ranges are accepted as-is
// by the aggregation arithmetic. Recomputation re-reads both tables on
// every call, which is O(causes + outcomes) per mutation and intended for
// interactive, low-volume graphs.
package dagtui
