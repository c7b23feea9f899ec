package models

import "time"

// Audit actions recorded for person mutations.
const (
	ActionAdd    = "ADD"
	ActionEdit   = "EDIT"
	ActionDelete = "DELETE"
)

// LogEntry is an append-only audit record. Entries are written as a side
// effect of every person mutation and are never updated or deleted by the
// application.
type LogEntry struct {
	// ID is the database-assigned identifier.
	ID int64 `json:"id"`

	// Action is one of ActionAdd, ActionEdit or ActionDelete.
	Action string `json:"action"`

	// Details is a free-text description of the mutation.
	Details string `json:"details"`

	// Username is the acting principal at the time of the mutation.
	Username string `json:"username"`

	// Timestamp is assigned by the database at insert.
	Timestamp time.Time `json:"timestamp"`
}
