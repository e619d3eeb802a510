package env

import (
	"sync/atomic"
	"time"

	"kvstore/internal/message"
)

// Clock supplies the timestamp a node stamps onto a write. Only the
// values it returns need to be comparable and, across a single node,
// non-decreasing — it does not require wall-clock time.
type Clock interface {
	Now() int64
}

// SystemClock stamps writes with the wall clock, in nanoseconds since the
// Unix epoch.
type SystemClock struct{}

// Now returns time.Now() as Unix nanoseconds.
func (SystemClock) Now() int64 {
	return time.Now().UnixNano()
}

// LogicalClock stamps writes with a process-local counter. Two calls from
// the same LogicalClock never return the same value, which makes
// reconciliation ties in tests reproducible.
type LogicalClock struct {
	counter int64
}

// Now returns the next value of the counter, starting at 1.
func (c *LogicalClock) Now() int64 {
	return atomic.AddInt64(&c.counter, 1)
}

// Transport is the node's sole channel to the outside world: delivering a
// peer message to another node's peer inbox, and delivering a client
// response to this node's own local outbox. The wire encoding and
// network substrate are left unspecified; Transport is the seam a node
// is built against instead of a socket.
type Transport interface {
	// SendPeer delivers msg to to's peer inbox. Delivery is best-effort:
	// an unreachable or unknown peer is simply dropped, matching the
	// coordinator's tolerance for silently-missing replies.
	SendPeer(to message.NodeID, msg message.PeerMessage)

	// SendLocal delivers resp to this node's own local outbox.
	SendLocal(resp message.ClientResponse)
}
