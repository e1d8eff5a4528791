package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/handler"
	"github.com/rakhadimas/field-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT.  Customers create reservations, list their own
// bookings and upload payment proofs.  Admins are allowed through as well so
// the front desk can book on a walk-in customer's behalf.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.POST("/reservations", h.Create)
	g.GET("/my-reservations", h.ListMine)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations/:id/payment-proof", h.SubmitPaymentProof)
}
