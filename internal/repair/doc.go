// Package repair computes the winning cell across a set of replica
// responses and pushes it back to any replica observed lagging behind it.
// Cells are totally ordered, so reconciliation here never produces
// siblings: there is always exactly one winner.
package repair
