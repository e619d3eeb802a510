// Package quorum tracks in-flight coordinator requests between the fanout
// to replicas and the quorum-th response. It is not mutex-protected: a
// node's single handler goroutine is the only caller, so Table is a plain
// map, not a concurrent one.
package quorum
