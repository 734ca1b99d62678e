package types

import "time"

// EventType names a bridge lifecycle event.
type EventType string

const (
	EventBridgeInitiated EventType = "bridgeInitiated"
	EventBridgeCompleted EventType = "bridgeCompleted"
	EventBridgeFailed    EventType = "bridgeFailed"
	EventBridgeCancelled EventType = "bridgeCancelled"
)

// Event is emitted on every transfer state change.
//
// Fields:
// - Type: the kind of event.
// - Transfer: a snapshot of the transfer after the change.
// - Transaction: the lock, mint or cancel transaction, nil for failures.
// - Err: the failure cause for bridgeFailed events.
// - At: the emission time.
type Event struct {
	Type        EventType    `json:"type"`
	Transfer    Transfer     `json:"transfer"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Err         error        `json:"-"`
	At          time.Time    `json:"at"`
}
