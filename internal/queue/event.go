// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type discriminators carried in ReservationEvent.Type.
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
)

// ReservationEvent is published when a booking is created or its
// lifecycle state changes.  It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	FieldID       uint64 `json:"field_id"`
	FieldName     string `json:"field_name"`
	CustomerName  string `json:"customer_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TotalPrice    uint64 `json:"total_price"`
	OccurredAt    string `json:"occurred_at"`
}
