// Package placement assigns each key to its three replica nodes.
// Placement is a pure function of the key and the cluster's node list:
// the same key and the same sorted node list always produce the same
// three replicas, in the same order, on every node.
package placement
