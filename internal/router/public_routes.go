package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rakhadimas/field-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// list active fields and inspect the availability grid before deciding to
// register.  The optional middlewares (response cache, rate limiter) are
// applied to the availability endpoint because it is the one clients poll.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
	e.GET("/v1/fields", p.ListFields)
	e.GET("/v1/fields/:id/availability", p.GetAvailability, mws...)
}
