package env

import (
	"log"

	"kvstore/internal/message"
)

// ChannelTransport routes peer messages to other nodes' peer inboxes over
// Go channels and client responses to this node's own local outbox. It is
// an in-process stand-in for a real network substrate: every node in a
// cluster shares one registry of peer inboxes, constructed once at wiring
// time.
type ChannelTransport struct {
	self     message.NodeID
	peerIn   map[message.NodeID]chan<- message.PeerMessage
	localOut chan<- message.ClientResponse
}

// NewChannelTransport builds the transport for node self. peerIn must map
// every node ID in the cluster, including self, to that node's peer inbox.
func NewChannelTransport(self message.NodeID, peerIn map[message.NodeID]chan<- message.PeerMessage, localOut chan<- message.ClientResponse) *ChannelTransport {
	return &ChannelTransport{self: self, peerIn: peerIn, localOut: localOut}
}

// SendPeer drops msg silently if to is not in the registry or its inbox is
// full; a node is never blocked on a slow or gone peer.
func (t *ChannelTransport) SendPeer(to message.NodeID, msg message.PeerMessage) {
	ch, ok := t.peerIn[to]
	if !ok {
		log.Printf("[%s] dropping message to unknown peer %s", t.self, to)
		return
	}
	select {
	case ch <- msg:
	default:
		log.Printf("[%s] dropping message to %s: inbox full", t.self, to)
	}
}

// SendLocal delivers resp to this node's local outbox, dropping it if the
// outbox is full rather than blocking the event loop.
func (t *ChannelTransport) SendLocal(resp message.ClientResponse) {
	select {
	case t.localOut <- resp:
	default:
		log.Printf("[%s] dropping local response: outbox full", t.self)
	}
}
