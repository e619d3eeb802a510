package placement

import (
	"crypto/md5"
	"math/big"
	"sort"

	"kvstore/internal/message"
)

// ReplicaCount is the fixed replication factor: every key's replica list
// has exactly three entries, never more, never fewer.
const ReplicaCount = 3

// SortNodes returns nodes sorted ascending by ID. Every node in a cluster
// must call this on the same input before using ReplicasOf, so that all
// nodes agree on the ring without exchanging it.
func SortNodes(nodes []message.NodeID) []message.NodeID {
	sorted := make([]message.NodeID, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

// ReplicasOf returns the three nodes responsible for key, in the order a
// coordinator should contact them. sortedNodes must already be sorted
// (see SortNodes) and must not be empty. With fewer than ReplicaCount
// nodes the walk wraps around and the result contains duplicates.
//
// The home index is the MD5 digest of key, interpreted as a little-endian
// unsigned integer, reduced mod len(sortedNodes). The remaining two
// replicas are the next two nodes walking forward around the ring, with
// wraparound.
func ReplicasOf(key string, sortedNodes []message.NodeID) []message.NodeID {
	n := len(sortedNodes)
	home := keyIndex(key, n)

	replicas := make([]message.NodeID, ReplicaCount)
	i := home
	for r := 0; r < ReplicaCount; r++ {
		replicas[r] = sortedNodes[i]
		i = nextIndex(i, n)
	}
	return replicas
}

// keyIndex reduces the MD5 digest of key, read as a little-endian unsigned
// integer, mod n.
func keyIndex(key string, n int) int {
	sum := md5.Sum([]byte(key))

	// big.Int.SetBytes expects big-endian, so reverse the digest first.
	reversed := make([]byte, len(sum))
	for i, b := range sum {
		reversed[len(sum)-1-i] = b
	}

	digest := new(big.Int).SetBytes(reversed)
	mod := big.NewInt(int64(n))
	return int(new(big.Int).Mod(digest, mod).Int64())
}

// nextIndex advances i to the next position on a ring of size n.
func nextIndex(i, n int) int {
	return (i + 1) % n
}
