// Package entity defines the domain types of the causal risk graph.
//
// A Cause is an atomic risk contributor with a user-supplied probability
// (a percentage) and severity (1-10). An Outcome is an entity whose
// probability and severity are derived from the causes feeding it: the
// arithmetic mean of contributor probabilities and the maximum contributor
// severity, recomputed by the engine after every mutation.
//
// Causes and outcomes are linked through comma-delimited adjacency fields:
// a cause's "causes" field names the outcomes it contributes to, and an
// outcome's "causedBy" field names its contributing causes. The id-list
// helpers in this package parse and join those fields, deduplicating by
// exact token.
//
// Both types convert to and from store.Record, the row representation the
// entity store persists. Numeric fields are lenient on decode: an absent or
// malformed value reads as zero, matching how the aggregation treats unset
// probabilities and severities.
package entity
