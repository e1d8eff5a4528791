package model

import (
	"errors"
	"fmt"
)

// Status is the booking lifecycle state of a reservation.  The values
// mirror the two-phase payment flow used at the venue: a deposit (DP)
// phase followed by a settlement (pelunasan) phase, or a single full
// payment that goes straight through the settlement states.
type Status string

const (
	StatusPending        Status = "PENDING"         // created, nothing submitted yet
	StatusDPSent         Status = "DP_SENT"         // deposit proof submitted, awaiting validation
	StatusDPPaid         Status = "DP_PAID"         // deposit validated by an admin
	StatusDPRejected     Status = "DP_REJECTED"     // deposit proof rejected, customer may resubmit
	StatusPelunasanSent  Status = "PELUNASAN_SENT"  // settlement proof submitted, awaiting validation
	StatusPelunasanPaid  Status = "PELUNASAN_PAID"  // settlement validated, fully paid
	StatusRejected       Status = "REJECTED"        // booking rejected by an admin (terminal)
	StatusCancelled      Status = "CANCELLED"       // booking cancelled (terminal)
	StatusCompleted      Status = "COMPLETED"       // booking played out and closed (terminal)
)

// PayStatus tracks the payment side of a reservation independently of the
// booking lifecycle.  It mirrors the payment subset of Status plus the
// terminal PAID and REFUNDED states.
type PayStatus string

const (
	PayPending       PayStatus = "PENDING"
	PayDPPaid        PayStatus = "DP_PAID"
	PayDPRejected    PayStatus = "DP_REJECTED"
	PayPelunasanSent PayStatus = "PELUNASAN_SENT"
	PayPaid          PayStatus = "PAID"
	PayRejected      PayStatus = "REJECTED"
	PayRefunded      PayStatus = "REFUNDED"
)

// PaymentPhase tags which payment a proof upload or validation refers to.
// The phase is always supplied explicitly by the caller; it is never
// inferred from free-text notes.
type PaymentPhase string

const (
	PhaseDeposit    PaymentPhase = "DEPOSIT"
	PhaseSettlement PaymentPhase = "SETTLEMENT"
	PhaseFull       PaymentPhase = "FULL"
)

// ParsePaymentPhase validates a phase string from a request body.
func ParsePaymentPhase(s string) (PaymentPhase, bool) {
	switch PaymentPhase(s) {
	case PhaseDeposit, PhaseSettlement, PhaseFull:
		return PaymentPhase(s), true
	}
	return "", false
}

// ErrIllegalTransition is returned (wrapped) whenever a lifecycle action
// is attempted against a state that does not permit it.  Handlers
// translate it into HTTP 422 so clients can distinguish it from plain
// validation failures.
var ErrIllegalTransition = errors.New("illegal status transition")

// statusTransitions is the single transition table for the booking
// lifecycle.  An edge must exist here for a transition to be legal;
// terminal states have no outgoing edges.
var statusTransitions = map[Status][]Status{
	StatusPending:       {StatusDPSent, StatusPelunasanSent, StatusRejected, StatusCancelled},
	StatusDPSent:        {StatusDPPaid, StatusDPRejected, StatusRejected, StatusCancelled},
	StatusDPRejected:    {StatusDPSent, StatusRejected, StatusCancelled},
	StatusDPPaid:        {StatusPelunasanSent, StatusCompleted, StatusRejected, StatusCancelled},
	StatusPelunasanSent: {StatusPelunasanPaid, StatusDPPaid, StatusPending, StatusRejected, StatusCancelled},
	StatusPelunasanPaid: {StatusCompleted, StatusRejected, StatusCancelled},
	StatusRejected:      {},
	StatusCancelled:     {},
	StatusCompleted:     {},
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Holding reports whether a reservation in this status still occupies
// its slot for conflict checking.  Every non-terminal status holds the
// slot: an unvalidated PENDING booking blocks the slot until it is
// explicitly rejected or cancelled.
func (s Status) Holding() bool {
	return !s.Terminal()
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a lifecycle move and returns a descriptive error
// wrapping ErrIllegalTransition when the move is not permitted.  It
// never mutates anything; callers apply the new status only on nil.
func Transition(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: reservation is already %s", ErrIllegalTransition, from)
	}
	return fmt.Errorf("%w: cannot move from %s to %s", ErrIllegalTransition, from, to)
}

// HoldingStatuses returns the set of statuses that occupy a slot, for
// use in SQL NOT IN / IN filters.
func HoldingStatuses() []Status {
	return []Status{StatusPending, StatusDPSent, StatusDPPaid, StatusDPRejected, StatusPelunasanSent, StatusPelunasanPaid}
}

// GridExcludedStatuses returns the statuses ignored by the availability
// grid.  COMPLETED is intentionally absent: a completed reservation is
// in the past but still shows as booked if it falls inside the horizon.
func GridExcludedStatuses() []Status {
	return []Status{StatusCancelled, StatusRejected}
}
