package handler

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/advisor-booking/internal/repository"
    "github.com/iliyamo/advisor-booking/internal/service"
)

// BookingHandler serves the public booking endpoints: advisor discovery,
// availability browsing, booking creation and a client's own booking list.
// None of these routes require authentication.
type BookingHandler struct {
    advisors *repository.AdvisorRepo
    slots    *repository.SlotRepo
    bookings *repository.BookingRepo
    svc      *service.BookingService
}

// NewBookingHandler wires the public booking endpoints to their
// collaborators.
func NewBookingHandler(advisors *repository.AdvisorRepo, slots *repository.SlotRepo, bookings *repository.BookingRepo, svc *service.BookingService) *BookingHandler {
    return &BookingHandler{advisors: advisors, slots: slots, bookings: bookings, svc: svc}
}

// ListAdvisors returns every advisor.
// GET /api/bookings/advisors
func (h *BookingHandler) ListAdvisors(c echo.Context) error {
    advisors, err := h.advisors.List(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", echo.Map{"advisors": advisors})
}

// Availability returns an advisor together with their free slots inside a
// requested UTC range.
// GET /api/bookings/availability?advisor_id=&from=&to=
func (h *BookingHandler) Availability(c echo.Context) error {
    advisorID, err := strconv.ParseUint(c.QueryParam("advisor_id"), 10, 64)
    if err != nil || advisorID == 0 {
        return respondInvalid(c, "advisor_id must be a positive integer")
    }
    from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
    if err != nil {
        return respondInvalid(c, "from must be an RFC3339 timestamp")
    }
    to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
    if err != nil {
        return respondInvalid(c, "to must be an RFC3339 timestamp")
    }
    if !from.Before(to) {
        return respondInvalid(c, "from must be earlier than to")
    }

    ctx := c.Request().Context()
    advisor, err := h.advisors.GetByID(ctx, advisorID)
    if err != nil {
        return respondError(c, err)
    }
    slots, err := h.slots.ListFreeByAdvisor(ctx, advisorID, from.UTC(), to.UTC())
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", echo.Map{"advisor": advisor, "slots": slots})
}

// createBookingRequest is the JSON body for POST /api/bookings.
type createBookingRequest struct {
    SlotID      uint64 `json:"slot_id"`
    ClientName  string `json:"client_name"`
    ClientEmail string `json:"client_email"`
}

// Create books a slot for a client.  Slot exclusivity is enforced inside
// the booking service; a taken slot comes back as a 409.
// POST /api/bookings
func (h *BookingHandler) Create(c echo.Context) error {
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return respondInvalid(c, "malformed request body")
    }
    detail, err := h.svc.Create(c.Request().Context(), req.SlotID, req.ClientName, req.ClientEmail)
    if err != nil {
        return respondError(c, err)
    }
    return respondCreated(c, "booking confirmed", echo.Map{"booking": detail})
}

// MyBookings lists a client's bookings by email, soonest slot first.
// GET /api/bookings/my-bookings?email=
func (h *BookingHandler) MyBookings(c echo.Context) error {
    email := service.NormalizeEmail(c.QueryParam("email"))
    if email == "" {
        return respondInvalid(c, "email is required")
    }
    bookings, err := h.bookings.ListByClientEmail(c.Request().Context(), email)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", echo.Map{"bookings": bookings})
}
