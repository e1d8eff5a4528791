// This file defines handlers for the public availability API. These
// routes allow unauthenticated users to browse active fields and the
// rolling 365-day availability grid without requiring authentication.
// Sensitive fields (customer contact details, payment records) are
// filtered from responses; member slots expose only the member's
// display name and contact string, which are not account data.

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/repository"
	"github.com/rakhadimas/field-reservation/internal/schedule"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	FieldRepo       *repository.FieldRepo
	MemberRepo      *repository.MemberScheduleRepo
	ReservationRepo *repository.ReservationRepo
	Now             func() time.Time // injectable time source for the grid start
}

// NewPublicHandler constructs a PublicHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewPublicHandler(fieldRepo *repository.FieldRepo, memberRepo *repository.MemberScheduleRepo, reservationRepo *repository.ReservationRepo) *PublicHandler {
	if fieldRepo == nil || memberRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		FieldRepo:       fieldRepo,
		MemberRepo:      memberRepo,
		ReservationRepo: reservationRepo,
		Now:             time.Now,
	}
}

// PublicField represents a field exposed via the public API. It
// contains only safe fields.
type PublicField struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	PricePerHour uint64  `json:"price_per_hour"`
}

// ListFields handles GET /v1/fields.  It returns all active fields for
// the booking UI.
func (h *PublicHandler) ListFields(c echo.Context) error {
	ctx := c.Request().Context()
	fields, err := h.FieldRepo.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicField, 0, len(fields))
	for _, f := range fields {
		out = append(out, PublicField{ID: f.ID, Name: f.Name, Description: f.Description, PricePerHour: f.PricePerHour})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability handles GET /v1/fields/:id/availability.  It returns
// the hour-by-hour grid for the next 365 business-local days.  The
// grid generator performs exactly two bulk fetches (members and
// reservations); responses for this route are additionally cached by
// the Redis middleware with a short TTL so dashboard polling stays
// cheap.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
	fieldID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	ctx := c.Request().Context()
	src := gridSource{fields: h.FieldRepo, members: h.MemberRepo, reservations: h.ReservationRepo}
	grid, err := schedule.GenerateGrid(ctx, src, fieldID, h.Now())
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build availability"})
	}
	return c.JSON(http.StatusOK, grid)
}
