package repair

import (
	"kvstore/internal/cell"
	"kvstore/internal/message"
)

// Winner returns the join of every cell in responses under cell.Merge's
// order. With an empty set it returns cell.Absent().
func Winner(responses map[message.NodeID]cell.Cell) cell.Cell {
	winner := cell.Absent()
	for _, c := range responses {
		winner = cell.Merge(winner, c)
	}
	return winner
}

// Stale returns the replicas whose reported cell is strictly behind
// winner, in no particular order. These are the targets of read repair.
func Stale(winner cell.Cell, responses map[message.NodeID]cell.Cell) []message.NodeID {
	var lagging []message.NodeID
	for replica, c := range responses {
		if cell.Less(c, winner) {
			lagging = append(lagging, replica)
		}
	}
	return lagging
}
