package model

import "time"

// PaymentType distinguishes bookings paid in full up front from
// deposit-based bookings that settle the remainder later.
type PaymentType string

const (
	PaymentFull PaymentType = "FULL"
	PaymentDP   PaymentType = "DP"
)

// Reservation is one concrete booking of a field for a contiguous time
// range on a single calendar day.  The Status and PaymentStatus fields
// follow the lifecycle defined in status.go; only reservations in a
// holding status occupy their slot.
//
// Fields:
//  ID             – primary key identifier.
//  FieldID        – field being booked.
//  UserID         – account of the customer who booked.
//  CustomerName   – name shown on the booking.
//  CustomerPhone  – contact number for the booking.
//  Date           – calendar day of the booking (no time component).
//  StartTime      – start as "HH:MM".
//  EndTime        – end as "HH:MM" (exclusive).
//  TotalPrice     – full price in rupiah for the whole range.
//  PaymentType    – FULL or DP.
//  PaymentAmount  – amount due up front (full price or the deposit).
//  Status         – booking lifecycle state.
//  PaymentStatus  – payment lifecycle state.
//  Note           – optional free-text note from the customer.
//  DP*            – deposit proof reference, sender and validation record.
//  Settlement*    – settlement proof reference, sender and validation record.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID            uint64      // reservations.id
	FieldID       uint64      // reservations.field_id
	UserID        uint64      // reservations.user_id
	CustomerName  string      // reservations.customer_name
	CustomerPhone string      // reservations.customer_phone
	Date          time.Time   // reservations.date (calendar day)
	StartTime     string      // reservations.start_time ("HH:MM")
	EndTime       string      // reservations.end_time ("HH:MM", exclusive)
	TotalPrice    uint64      // reservations.total_price
	PaymentType   PaymentType // reservations.payment_type
	PaymentAmount uint64      // reservations.payment_amount
	Status        Status      // reservations.status
	PaymentStatus PayStatus   // reservations.payment_status
	Note          *string     // reservations.note (nullable)

	DPProofURL    *string    // reservations.dp_proof_url (nullable)
	DPSenderName  *string    // reservations.dp_sender_name (nullable)
	DPValidatedBy *uint64    // reservations.dp_validated_by (nullable admin id)
	DPValidatedAt *time.Time // reservations.dp_validated_at (nullable)

	SettlementProofURL    *string    // reservations.settlement_proof_url (nullable)
	SettlementSenderName  *string    // reservations.settlement_sender_name (nullable)
	SettlementValidatedBy *uint64    // reservations.settlement_validated_by (nullable admin id)
	SettlementValidatedAt *time.Time // reservations.settlement_validated_at (nullable)

	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}
