package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/handler"
	"github.com/rakhadimas/field-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, f *handler.FieldHandler, m *handler.MemberHandler, r *handler.AdminReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Fields ----
	g.POST("/fields", f.Create)
	g.GET("/fields", f.List)
	g.PATCH("/fields/:id", f.Update)
	g.PUT("/fields/:id", f.Update) // alias for clients that send full documents
	g.DELETE("/fields/:id", f.Deactivate)

	// ---- Member schedules ----
	g.POST("/members", m.CreateBatch)
	g.GET("/members", m.List)
	g.DELETE("/members/:id", m.Deactivate)

	// ---- Reservations ----
	g.GET("/reservations", r.List)
	g.PATCH("/reservations/:id/reject", r.Reject)
	g.PATCH("/reservations/:id/reschedule", r.Reschedule)
	g.PATCH("/reservations/:id/validate-payment", r.ValidatePayment)
	g.PATCH("/reservations/:id/complete", r.Complete)
	g.PATCH("/reservations/:id/cancel", r.Cancel)
}
