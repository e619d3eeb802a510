// Package node implements the per-process key-value node: a single event
// loop that is, at once, the coordinator for every client operation
// submitted to its local inbox, whatever the key's placement, and a
// replica for operations coordinated by other nodes. All local state is
// owned by that one goroutine, so nothing in this package takes a lock.
//
// Pending requests have no timeout: a request for which fewer than its
// quorum of replicas ever answer stays open forever, and its client
// never receives a reply.
package node
