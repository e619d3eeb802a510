// Package env provides the node's injected environment services: a
// monotonically non-decreasing clock and a best-effort, possibly-lossy
// message transport. Both are external collaborators whose contract is
// fixed by the node; this package only defines and exercises that
// contract, not a production network stack.
package env
