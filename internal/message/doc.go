// Package message defines the envelope types a node exchanges on its
// local inbox/outbox and peer inbox. Each message kind is its own
// struct; LocalMessage and PeerMessage are closed sum types over them so
// that the node's central dispatch can be exhaustive.
package message
