package caseevent

import "time"

// Event is one append-only entry in a chargeback's evidentiary trail.
// Events are never updated or deleted; the trail is the sequence of a
// case's events ordered by (event_date, event_id).
type Event struct {
	ID           int64
	ChargebackID string
	Type         string
	Date         time.Time
	// Data is the raw jsonb payload; DecodePayload turns it into the
	// typed variant for Type.
	Data        []byte
	Description string
}

// Payload returns the decoded typed payload for the event.
func (e Event) Payload() (EventPayload, error) {
	return DecodePayload(e.Type, e.Data)
}
