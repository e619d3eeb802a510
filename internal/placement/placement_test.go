package placement

import (
	"testing"

	"kvstore/internal/message"
)

func nodeIDs(ids ...string) []message.NodeID {
	out := make([]message.NodeID, len(ids))
	for i, id := range ids {
		out[i] = message.NodeID(id)
	}
	return out
}

func TestReplicasOf_ReturnsThreeDistinctNodes(t *testing.T) {
	nodes := SortNodes(nodeIDs("n1", "n2", "n3", "n4", "n5"))

	replicas := ReplicasOf("user:123", nodes)
	if len(replicas) != ReplicaCount {
		t.Fatalf("ReplicasOf returned %d replicas, want %d", len(replicas), ReplicaCount)
	}

	seen := make(map[message.NodeID]bool)
	for _, r := range replicas {
		if seen[r] {
			t.Errorf("duplicate replica %s in %v", r, replicas)
		}
		seen[r] = true
	}
}

func TestReplicasOf_AllReplicasAreClusterMembers(t *testing.T) {
	nodes := SortNodes(nodeIDs("n3", "n1", "n2"))
	members := make(map[message.NodeID]bool)
	for _, n := range nodes {
		members[n] = true
	}

	for i := 0; i < 200; i++ {
		key := string(rune('a'+i%26)) + string(rune('0'+i%10))
		for _, r := range ReplicasOf(key, nodes) {
			if !members[r] {
				t.Errorf("ReplicasOf(%q) returned non-member %s", key, r)
			}
		}
	}
}

func TestReplicasOf_Consecutive(t *testing.T) {
	nodes := nodeIDs("n0", "n1", "n2", "n3", "n4")

	replicas := ReplicasOf("key1", nodes)
	home := -1
	for i, n := range nodes {
		if n == replicas[0] {
			home = i
			break
		}
	}
	if home == -1 {
		t.Fatalf("home replica %s not found in node list", replicas[0])
	}
	for r := 1; r < ReplicaCount; r++ {
		want := nodes[(home+r)%len(nodes)]
		if replicas[r] != want {
			t.Errorf("replica[%d] = %s, want %s (consecutive from home)", r, replicas[r], want)
		}
	}
}

func TestReplicasOf_WrapsAroundRing(t *testing.T) {
	// Five nodes, enough keys that some home index must land near the end
	// and require wraparound to fill three replicas.
	nodes := nodeIDs("n0", "n1", "n2", "n3", "n4")

	for i := 0; i < 500; i++ {
		key := string(rune('a'+i%26)) + string(rune('A'+i%26)) + string(rune('0'+i%10))
		replicas := ReplicasOf(key, nodes)
		if len(replicas) != ReplicaCount {
			t.Fatalf("ReplicasOf(%q) returned %d replicas", key, len(replicas))
		}
	}
}

func TestReplicasOf_SingleNode_ReturnsThreeDuplicates(t *testing.T) {
	nodes := nodeIDs("solo")

	replicas := ReplicasOf("any-key", nodes)
	if len(replicas) != ReplicaCount {
		t.Fatalf("ReplicasOf returned %d replicas, want %d", len(replicas), ReplicaCount)
	}
	for _, r := range replicas {
		if r != "solo" {
			t.Errorf("replica = %s, want the only node %q", r, "solo")
		}
	}
}

func TestReplicasOf_TwoNodes_WrapsWithDuplicate(t *testing.T) {
	nodes := SortNodes(nodeIDs("n1", "n2"))

	replicas := ReplicasOf("any-key", nodes)
	if len(replicas) != ReplicaCount {
		t.Fatalf("ReplicasOf returned %d replicas, want %d", len(replicas), ReplicaCount)
	}

	seen := make(map[message.NodeID]bool)
	dup := false
	for _, r := range replicas {
		if seen[r] {
			dup = true
		}
		seen[r] = true
		if r != "n1" && r != "n2" {
			t.Errorf("replica %s is not a cluster member", r)
		}
	}
	if !dup {
		t.Errorf("ReplicasOf with 2 nodes = %v, want a duplicate entry from wraparound", replicas)
	}
}

// TestReplicasOf_Property_Determinism verifies the same key and the same
// sorted node list always produce the same replica set, independent of
// which node computes it.
func TestReplicasOf_Property_Determinism(t *testing.T) {
	nodes1 := SortNodes(nodeIDs("n1", "n2", "n3"))
	nodes2 := SortNodes(nodeIDs("n1", "n2", "n3"))

	testKeys := []string{"key1", "key2", "key3", "user:123", "test-key", "another-key"}
	for _, key := range testKeys {
		r1 := ReplicasOf(key, nodes1)
		r2 := ReplicasOf(key, nodes2)
		for i := range r1 {
			if r1[i] != r2[i] {
				t.Errorf("replica[%d] mismatch for key %s: %s vs %s", i, key, r1[i], r2[i])
			}
		}
	}
}

// TestReplicasOf_Property_OrderInvariant verifies that the input order of
// nodes passed to SortNodes does not affect the resulting placement, only
// cluster membership does.
func TestReplicasOf_Property_OrderInvariant(t *testing.T) {
	a := SortNodes(nodeIDs("n1", "n2", "n3"))
	b := SortNodes(nodeIDs("n3", "n1", "n2"))

	testKeys := []string{"key1", "key2", "key3", "alpha", "beta"}
	for _, key := range testKeys {
		ra := ReplicasOf(key, a)
		rb := ReplicasOf(key, b)
		for i := range ra {
			if ra[i] != rb[i] {
				t.Errorf("replica[%d] mismatch for key %s under reordered input: %s vs %s", i, key, ra[i], rb[i])
			}
		}
	}
}
