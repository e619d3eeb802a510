package node

import (
	"context"
	"log"

	"kvstore/internal/cell"
	"kvstore/internal/config"
	"kvstore/internal/env"
	"kvstore/internal/message"
	"kvstore/internal/placement"
	"kvstore/internal/quorum"
	"kvstore/internal/repair"
	"kvstore/internal/storage"
)

// inboxCapacity bounds the buffering on a node's channels. A node never
// blocks trying to deliver into a full inbox; see env.ChannelTransport.
const inboxCapacity = 256

// Node is a single cluster member. It coordinates every client operation
// submitted to its LocalIn, for any key, and answers replica requests
// coordinated by other nodes, all from one goroutine driven by Run.
type Node struct {
	ID    message.NodeID
	Nodes []message.NodeID // sorted; see placement.SortNodes

	Store     storage.Store
	Clock     env.Clock
	Transport env.Transport

	quorum   *quorum.Table
	repairer *repair.Repairer

	// LocalIn carries client operations; PeerIn carries messages from
	// other nodes' coordinators and replicas. TimerIn is reserved for a
	// future retry/timeout mechanism and is never read by Run today.
	LocalIn  chan message.LocalMessage
	PeerIn   chan message.PeerMessage
	TimerIn  chan struct{}
	LocalOut chan message.ClientResponse
}

// New builds a node. nodes should already be sorted (placement.SortNodes)
// so every node in the cluster computes the same placement. The node has
// no Transport until SetTransport is called: wiring a cluster together
// generally needs every member's PeerIn and LocalOut channel to exist
// before any transport can be built, so transport is a second step.
func New(id message.NodeID, nodes []message.NodeID, store storage.Store, clock env.Clock) *Node {
	return &Node{
		ID:       id,
		Nodes:    nodes,
		Store:    store,
		Clock:    clock,
		quorum:   quorum.NewTable(),
		LocalIn:  make(chan message.LocalMessage, inboxCapacity),
		PeerIn:   make(chan message.PeerMessage, inboxCapacity),
		TimerIn:  make(chan struct{}, inboxCapacity),
		LocalOut: make(chan message.ClientResponse, inboxCapacity),
	}
}

// SetTransport installs t as the node's Transport and wires the read
// repairer to use it.
func (n *Node) SetTransport(t env.Transport) {
	n.Transport = t
	n.repairer = &repair.Repairer{Transport: t}
}

// Run drives the event loop until ctx is cancelled.
func (n *Node) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.LocalIn:
			n.handleLocal(msg)
		case msg := <-n.PeerIn:
			n.handlePeer(msg)
		}
	}
}

func (n *Node) handleLocal(msg message.LocalMessage) {
	switch m := msg.(type) {
	case message.GetRequest:
		n.coordinateGet(m)
	case message.PutRequest:
		n.coordinatePut(m)
	case message.DeleteRequest:
		n.coordinateDelete(m)
	default:
		log.Printf("[%s] dropping local message of unknown type %T", n.ID, msg)
	}
}

func (n *Node) handlePeer(msg message.PeerMessage) {
	switch m := msg.(type) {
	case message.ReplicaGetReq:
		n.handleReplicaGetReq(m)
	case message.ReplicaGetResp:
		n.handleReplicaGetResp(m)
	case message.ReplicaPutReq:
		n.handleReplicaPutReq(m)
	case message.ReplicaPutResp:
		n.handleReplicaPutResp(m)
	case message.ReplicaDeleteReq:
		n.handleReplicaDeleteReq(m)
	case message.ReplicaDeleteResp:
		n.handleReplicaDeleteResp(m)
	case message.ReplicaReadRepair:
		n.handleReplicaReadRepair(m)
	default:
		log.Printf("[%s] dropping peer message of unknown type %T", n.ID, msg)
	}
}

// clampQuorum normalizes a client-requested quorum to the [1, ReplicaCount]
// range, defaulting to config.DefaultQuorum when none was given.
func clampQuorum(requested int) int {
	switch {
	case requested <= 0:
		return config.DefaultQuorum
	case requested > placement.ReplicaCount:
		return placement.ReplicaCount
	default:
		return requested
	}
}

// --- coordinator: GET ---

func (n *Node) coordinateGet(req message.GetRequest) {
	replicas := placement.ReplicasOf(req.Key, n.Nodes)
	q := clampQuorum(req.Quorum)
	pr := n.quorum.Open(message.OpGet, req.Key, q, replicas)

	log.Printf("[%s] GET key=%s request_id=%d replicas=%v quorum=%d", n.ID, req.Key, pr.ID, replicas, q)
	for _, replica := range replicas {
		n.Transport.SendPeer(replica, message.ReplicaGetReq{
			Key:         req.Key,
			RequestID:   pr.ID,
			Coordinator: n.ID,
		})
	}
}

func (n *Node) handleReplicaGetReq(req message.ReplicaGetReq) {
	c := n.Store.Get(req.Key)
	n.Transport.SendPeer(req.Coordinator, message.ReplicaGetResp{
		Key:       req.Key,
		Value:     c.Value,
		Tombstone: c.Tombstone,
		Timestamp: c.Timestamp,
		RequestID: req.RequestID,
		Replica:   n.ID,
	})
}

func (n *Node) handleReplicaGetResp(resp message.ReplicaGetResp) {
	pr, ok := n.quorum.Record(resp.RequestID, message.OpGet, resp.Replica, cell.Cell{
		Value:     resp.Value,
		Tombstone: resp.Tombstone,
		Timestamp: resp.Timestamp,
	})
	if !ok {
		return
	}
	if pr.HasQuorum() {
		n.finalizeGet(pr)
	}
}

func (n *Node) finalizeGet(pr *quorum.PendingRequest) {
	n.quorum.Close(pr.ID)

	winner := repair.Winner(pr.Responses)
	stale := repair.Stale(winner, pr.Responses)
	n.repairer.Repair(pr.Key, winner, stale)

	n.Transport.SendLocal(message.GetResponse{
		Key:       pr.Key,
		Value:     winner.Value,
		Tombstone: winner.Tombstone,
	})
}

func (n *Node) handleReplicaReadRepair(msg message.ReplicaReadRepair) {
	n.Store.Merge(msg.Key, cell.Cell{
		Value:     msg.Value,
		Tombstone: msg.Tombstone,
		Timestamp: msg.Timestamp,
	})
}

// --- coordinator: PUT ---

func (n *Node) coordinatePut(req message.PutRequest) {
	replicas := placement.ReplicasOf(req.Key, n.Nodes)
	q := clampQuorum(req.Quorum)
	timestamp := n.Clock.Now()
	pr := n.quorum.Open(message.OpPut, req.Key, q, replicas)

	log.Printf("[%s] PUT key=%s request_id=%d replicas=%v quorum=%d timestamp=%d", n.ID, req.Key, pr.ID, replicas, q, timestamp)
	for _, replica := range replicas {
		n.Transport.SendPeer(replica, message.ReplicaPutReq{
			Key:         req.Key,
			Value:       req.Value,
			Timestamp:   timestamp,
			RequestID:   pr.ID,
			Coordinator: n.ID,
		})
	}
}

func (n *Node) handleReplicaPutReq(req message.ReplicaPutReq) {
	merged := n.Store.Merge(req.Key, cell.Cell{Value: req.Value, Timestamp: req.Timestamp})
	n.Transport.SendPeer(req.Coordinator, message.ReplicaPutResp{
		Key:       req.Key,
		Value:     merged.Value,
		Tombstone: merged.Tombstone,
		Timestamp: merged.Timestamp,
		RequestID: req.RequestID,
		Replica:   n.ID,
	})
}

func (n *Node) handleReplicaPutResp(resp message.ReplicaPutResp) {
	pr, ok := n.quorum.Record(resp.RequestID, message.OpPut, resp.Replica, cell.Cell{
		Value:     resp.Value,
		Tombstone: resp.Tombstone,
		Timestamp: resp.Timestamp,
	})
	if !ok {
		return
	}
	if pr.HasQuorum() {
		n.finalizePut(pr)
	}
}

func (n *Node) finalizePut(pr *quorum.PendingRequest) {
	n.quorum.Close(pr.ID)
	winner := repair.Winner(pr.Responses)
	n.Transport.SendLocal(message.PutResponse{
		Key:       pr.Key,
		Value:     winner.Value,
		Tombstone: winner.Tombstone,
	})
}

// --- coordinator: DELETE ---

func (n *Node) coordinateDelete(req message.DeleteRequest) {
	replicas := placement.ReplicasOf(req.Key, n.Nodes)
	q := clampQuorum(req.Quorum)
	timestamp := n.Clock.Now()
	pr := n.quorum.Open(message.OpDelete, req.Key, q, replicas)

	log.Printf("[%s] DELETE key=%s request_id=%d replicas=%v quorum=%d timestamp=%d", n.ID, req.Key, pr.ID, replicas, q, timestamp)
	for _, replica := range replicas {
		n.Transport.SendPeer(replica, message.ReplicaDeleteReq{
			Key:         req.Key,
			Timestamp:   timestamp,
			RequestID:   pr.ID,
			Coordinator: n.ID,
		})
	}
}

// handleReplicaDeleteReq unconditionally overwrites the local cell with a
// tombstone, bypassing the usual merge entirely, and reports back
// whatever was stored immediately beforehand.
func (n *Node) handleReplicaDeleteReq(req message.ReplicaDeleteReq) {
	prior := n.Store.Overwrite(req.Key, cell.Cell{Tombstone: true, Timestamp: req.Timestamp})
	n.Transport.SendPeer(req.Coordinator, message.ReplicaDeleteResp{
		Key:       req.Key,
		Value:     prior.Value,
		Tombstone: prior.Tombstone,
		Timestamp: prior.Timestamp,
		RequestID: req.RequestID,
		Replica:   n.ID,
	})
}

func (n *Node) handleReplicaDeleteResp(resp message.ReplicaDeleteResp) {
	pr, ok := n.quorum.Record(resp.RequestID, message.OpDelete, resp.Replica, cell.Cell{
		Value:     resp.Value,
		Tombstone: resp.Tombstone,
		Timestamp: resp.Timestamp,
	})
	if !ok {
		return
	}
	if pr.HasQuorum() {
		n.finalizeDelete(pr)
	}
}

func (n *Node) finalizeDelete(pr *quorum.PendingRequest) {
	n.quorum.Close(pr.ID)
	winner := repair.Winner(pr.Responses)
	n.Transport.SendLocal(message.DeleteResponse{
		Key:       pr.Key,
		Value:     winner.Value,
		Tombstone: winner.Tombstone,
	})
}
