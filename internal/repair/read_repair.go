package repair

import (
	"log"

	"kvstore/internal/cell"
	"kvstore/internal/env"
	"kvstore/internal/message"
)

// Repairer pushes a GET's winning cell to replicas that answered with a
// strictly older one. It never replies and never retries: a dropped
// repair message is simply a replica that stays stale until the next GET
// of that key.
type Repairer struct {
	Transport env.Transport
}

// Repair sends winner to every node in stale as a ReplicaReadRepair.
func (r *Repairer) Repair(key string, winner cell.Cell, stale []message.NodeID) {
	if len(stale) == 0 {
		return
	}
	log.Printf("read repair: key=%s winner_ts=%d stale=%v", key, winner.Timestamp, stale)
	for _, replica := range stale {
		r.Transport.SendPeer(replica, message.ReplicaReadRepair{
			Key:       key,
			Value:     winner.Value,
			Tombstone: winner.Tombstone,
			Timestamp: winner.Timestamp,
		})
	}
}
