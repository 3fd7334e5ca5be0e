package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketStateChanged EventType = "ticket_state_changed"
	EventSnapshotReplaced   EventType = "snapshot_replaced"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	UID       string `json:"uid"`
	ItemCount int    `json:"item_count"`
}

// TicketStateChangedPayload payload.
type TicketStateChangedPayload struct {
	NewState int `json:"new_state"`
}

// SnapshotReplacedPayload payload.
type SnapshotReplacedPayload struct {
	Collection string `json:"collection"`
	Documents  int    `json:"documents"`
}
