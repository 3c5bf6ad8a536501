package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CREDITS_DEBITED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Ledger audit event codes.
const (
	TypeCreditsDebited    = "CREDITS_DEBITED"
	TypeCreditsRefunded   = "CREDITS_REFUNDED"
	TypeCreditsAdjusted   = "CREDITS_ADJUSTED"
	TypePurchaseSettled   = "PURCHASE_SETTLED"
	TypeRefundWriteFailed = "REFUND_WRITE_FAILED"
)

// BaseEvent is the plain implementation most publishers use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
