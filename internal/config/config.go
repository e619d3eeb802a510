package config

import (
	"fmt"
	"strings"

	"kvstore/internal/message"
	"kvstore/internal/placement"
)

// DefaultQuorum is used when a client request does not specify one.
// Quorum is tunable per request between 1 and placement.ReplicaCount.
const DefaultQuorum = 2

// Config holds the static membership a node is launched with: its own ID
// and the full, fixed cluster. Membership changes are not supported;
// a node's view of Nodes is set once at construction.
type Config struct {
	NodeID message.NodeID
	Nodes  []message.NodeID
}

// ParseNodeList parses a comma-separated list of node IDs, e.g.
// "n1,n2,n3". Surrounding whitespace around each ID is trimmed.
func ParseNodeList(nodesStr string) ([]message.NodeID, error) {
	if strings.TrimSpace(nodesStr) == "" {
		return nil, fmt.Errorf("node list cannot be empty")
	}

	parts := strings.Split(nodesStr, ",")
	nodes := make([]message.NodeID, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, fmt.Errorf("invalid node list %q: empty node ID", nodesStr)
		}
		nodes = append(nodes, message.NodeID(id))
	}
	return nodes, nil
}

// SortedNodes returns this cluster's nodes sorted for placement.ReplicasOf.
func (c *Config) SortedNodes() []message.NodeID {
	return placement.SortNodes(c.Nodes)
}

// Validate checks that NodeID is a member of Nodes and the cluster is
// large enough to hold a full replica set.
func (c *Config) Validate() error {
	if len(c.Nodes) < placement.ReplicaCount {
		return fmt.Errorf("cluster has %d nodes, need at least %d", len(c.Nodes), placement.ReplicaCount)
	}
	for _, n := range c.Nodes {
		if n == c.NodeID {
			return nil
		}
	}
	return fmt.Errorf("node ID %q is not present in its own node list %v", c.NodeID, c.Nodes)
}
