// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL driver errors: a missing field maps to 404, a missing
// reservation to 404, and so on.
package repository

import "errors"

// ErrFieldNotFound is returned when a field does not exist or, for
// lookups that require an active field, has been deactivated.
var ErrFieldNotFound = errors.New("field not found")

// ErrReservationNotFound is returned when a reservation lookup matches
// no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrMemberScheduleNotFound is returned when a member schedule lookup
// or deactivation matches no row.
var ErrMemberScheduleNotFound = errors.New("member schedule not found")
