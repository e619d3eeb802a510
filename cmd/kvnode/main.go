// Command kvnode runs an in-process cluster of key-value nodes and drives
// it from stdin. Every node named on --nodes runs in this one process,
// wired together over env.ChannelTransport in place of a real network,
// and commands name which node to submit the request to.
//
// Usage:
//
//	kvnode --node-id n1 --nodes n1,n2,n3,n4,n5
//
// Then on stdin, one command per line:
//
//	GET <key>
//	PUT <key> <value>
//	DELETE <key>
//
// Every command is submitted through --node-id's local inbox.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"kvstore/internal/config"
	"kvstore/internal/env"
	"kvstore/internal/message"
	"kvstore/internal/node"
	"kvstore/internal/storage"
)

func main() {
	nodeID := flag.String("node-id", "", "this process's entry node (must be one of --nodes)")
	nodesFlag := flag.String("nodes", "", "comma-separated cluster membership, e.g. n1,n2,n3,n4,n5")
	flag.Parse()

	if *nodeID == "" {
		log.Fatal("--node-id is required")
	}

	nodes, err := config.ParseNodeList(*nodesFlag)
	if err != nil {
		log.Fatalf("invalid --nodes: %v", err)
	}

	cfg := &config.Config{NodeID: message.NodeID(*nodeID), Nodes: nodes}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	cluster := startCluster(cfg.SortedNodes())
	entry := cluster[cfg.NodeID]

	log.Printf("[%s] cluster up, nodes=%v, reading commands from stdin", cfg.NodeID, cfg.SortedNodes())
	runREPL(entry)
}

// startCluster builds every node in nodes, wires them together over
// in-process channel transports, and starts each one's event loop.
func startCluster(nodes []message.NodeID) map[message.NodeID]*node.Node {
	nodesByID := make(map[message.NodeID]*node.Node, len(nodes))
	for _, id := range nodes {
		nodesByID[id] = node.New(id, nodes, storage.NewMemStore(), env.SystemClock{})
	}

	peerIn := make(map[message.NodeID]chan<- message.PeerMessage, len(nodesByID))
	for id, n := range nodesByID {
		peerIn[id] = n.PeerIn
	}
	for id, n := range nodesByID {
		n.SetTransport(env.NewChannelTransport(id, peerIn, n.LocalOut))
	}

	for _, n := range nodesByID {
		go n.Run(context.Background())
	}
	return nodesByID
}

func runREPL(entry *node.Node) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		req, err := parseCommand(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		entry.LocalIn <- req
		select {
		case resp := <-entry.LocalOut:
			printResponse(resp)
		case <-time.After(5 * time.Second):
			fmt.Fprintln(os.Stderr, "error: timed out waiting for response")
		}
	}
}

func parseCommand(line string) (message.LocalMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	switch strings.ToUpper(fields[0]) {
	case "GET":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: GET <key>")
		}
		return message.GetRequest{Key: fields[1], Quorum: config.DefaultQuorum}, nil
	case "PUT":
		if len(fields) < 3 {
			return nil, fmt.Errorf("usage: PUT <key> <value>")
		}
		return message.PutRequest{Key: fields[1], Value: []byte(strings.Join(fields[2:], " ")), Quorum: config.DefaultQuorum}, nil
	case "DELETE":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: DELETE <key>")
		}
		return message.DeleteRequest{Key: fields[1], Quorum: config.DefaultQuorum}, nil
	default:
		return nil, fmt.Errorf("unknown command %q (want GET, PUT, or DELETE)", fields[0])
	}
}

func printResponse(resp message.ClientResponse) {
	switch r := resp.(type) {
	case message.GetResponse:
		if r.Tombstone {
			fmt.Println("(not found)")
			return
		}
		fmt.Println(string(r.Value))
	case message.PutResponse:
		if r.Tombstone {
			fmt.Println("OK (superseded by a later delete)")
			return
		}
		fmt.Printf("OK %s\n", r.Value)
	case message.DeleteResponse:
		if r.Tombstone {
			fmt.Println("OK (no prior value)")
			return
		}
		fmt.Printf("OK (was %s)\n", r.Value)
	}
}
