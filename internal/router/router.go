package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/advisor-booking/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/advisor-booking/internal/middleware" // JWT auth for the admin surface
)

// RegisterRoutes registers routes that carry no group middleware.
// Currently that is only the health check used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated booking endpoints under
// /api/bookings.  The caller passes the middleware to apply to the
// group (rate limiting, and response caching for the GETs); pass none
// to run the group bare.
func RegisterPublic(e *echo.Echo, h *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/bookings", mw...)
	// Advisor discovery and availability browsing.
	g.GET("/advisors", h.ListAdvisors)
	g.GET("/availability", h.Availability)
	// Booking creation claims a free slot; the handler returns 409 when
	// the slot was taken by a concurrent request.
	g.POST("", h.Create)
	// A client's own bookings, looked up by email.
	g.GET("/my-bookings", h.MyBookings)
}

// RegisterAuth registers admin registration and login under /api/auth.
// Both endpoints are unauthenticated; login is where tokens come from.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAdmin registers the management endpoints under /api/admin and
// the reminder scheduler controls under /api/reminders.  Every route in
// both groups requires a valid admin access token.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, r *handler.ReminderHandler, jwtSecret string) {
	auth := middleware.AdminAuth(jwtSecret)

	g := e.Group("/api/admin", auth)
	g.GET("/bookings", h.ListBookings)
	g.PUT("/bookings/:id/status", h.UpdateStatus)
	g.DELETE("/bookings/:id", h.Delete)
	g.POST("/bookings/:id/resend-email", h.ResendEmail)
	g.GET("/stats", h.Stats)
	g.GET("/email-logs", h.EmailLogs)

	rem := e.Group("/api/reminders", auth)
	rem.GET("/status", r.Status)
	rem.POST("/start", r.Start)
	rem.POST("/stop", r.Stop)
	rem.POST("/run", r.Run)
}
