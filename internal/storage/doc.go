// Package storage provides the local per-key cell store each node owns.
// It has no locking of its own: a single handler goroutine is in charge
// of all local state, so the store is safe only because nothing ever
// calls it concurrently.
package storage
