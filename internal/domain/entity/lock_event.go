package entity

import (
	"time"
)

// LockAction identifies what happened to a lock row
type LockAction string

const (
	// LockInserted means a lock row was created for a previously free invoice
	LockInserted LockAction = "insert"
	// LockUpdated means an existing lock row was refreshed or replaced
	LockUpdated LockAction = "update"
	// LockDeleted means the lock row was removed
	LockDeleted LockAction = "delete"
)

// LockEvent is the wire payload on the realtime lock change feed.
//
// Delivery is at-least-eventually and not necessarily in order: a subscriber
// may see a delete event followed by a stale insert for an earlier state.
// Consumers must always prefer the most recently fetched row over any
// buffered event.
type LockEvent struct {
	Action    LockAction `json:"action"`
	InvoiceID string     `json:"invoice_id"`
	Lock      *Lock      `json:"lock,omitempty"`
	EmittedAt time.Time  `json:"emitted_at"`
}
