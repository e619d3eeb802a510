// Package cell implements the (value-or-tombstone, timestamp) unit of
// replicated state and the total order used to reconcile divergent
// copies. Merge is a commutative, associative, idempotent join: a CRDT
// last-writer-wins register with a lexicographic-value tiebreaker.
package cell
