package model

import "time"

// Field represents a bookable sports field.  Fields are created and
// maintained by admins.  Deactivated fields are hidden from the booking
// flow but are never hard-deleted because historical reservations keep
// referencing them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the field.
//  Description – optional free-text description.
//  PricePerHour – hourly rate in rupiah.
//  IsActive    – whether the field accepts new bookings.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Field struct {
	ID           uint64    // fields.id
	Name         string    // fields.name
	Description  *string   // fields.description (nullable)
	PricePerHour uint64    // fields.price_per_hour
	IsActive     bool      // fields.is_active
	CreatedAt    time.Time // fields.created_at
	UpdatedAt    time.Time // fields.updated_at
}
