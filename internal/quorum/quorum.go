package quorum

import (
	"kvstore/internal/cell"
	"kvstore/internal/message"
)

// PendingRequest is an OPEN coordinator request waiting on replica
// replies. It is removed from its Table the moment it finalizes: a
// request is finalized at most once.
type PendingRequest struct {
	ID        message.RequestID
	Operation message.Operation
	Key       string
	Quorum    int
	Replicas  []message.NodeID
	Responses map[message.NodeID]cell.Cell
}

// HasQuorum reports whether enough distinct replicas have responded to
// finalize the request.
func (p *PendingRequest) HasQuorum() bool {
	return len(p.Responses) >= p.Quorum
}

// Table is the set of OPEN requests a coordinator is tracking, keyed by
// request ID. IDs are assigned by the table itself: monotonically
// increasing and never reused.
type Table struct {
	nextID  message.RequestID
	pending map[message.RequestID]*PendingRequest
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{pending: make(map[message.RequestID]*PendingRequest)}
}

// Open allocates a new request ID and registers a PendingRequest for it.
func (t *Table) Open(op message.Operation, key string, quorum int, replicas []message.NodeID) *PendingRequest {
	t.nextID++
	pr := &PendingRequest{
		ID:        t.nextID,
		Operation: op,
		Key:       key,
		Quorum:    quorum,
		Replicas:  replicas,
		Responses: make(map[message.NodeID]cell.Cell),
	}
	t.pending[pr.ID] = pr
	return pr
}

// Record attaches a replica's response to the request named by id. It
// silently ignores a response for an id the table does not hold (the
// request already finalized, or the id is unknown) or for an operation
// tag that doesn't match what was opened — both are treated as stray,
// late, or malformed traffic rather than errors. A second response from
// the same replica overwrites its first.
func (t *Table) Record(id message.RequestID, op message.Operation, replica message.NodeID, c cell.Cell) (*PendingRequest, bool) {
	pr, ok := t.pending[id]
	if !ok || pr.Operation != op {
		return nil, false
	}
	pr.Responses[replica] = c
	return pr, true
}

// Close removes the request named by id from the table, finalizing it.
// Calling Close on an id that is no longer open is a no-op, which keeps
// finalization idempotent if a caller races its own quorum check.
func (t *Table) Close(id message.RequestID) {
	delete(t.pending, id)
}

// Get returns the request named by id without modifying the table.
func (t *Table) Get(id message.RequestID) (*PendingRequest, bool) {
	pr, ok := t.pending[id]
	return pr, ok
}
