package handler

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/advisor-booking/internal/model"
    "github.com/iliyamo/advisor-booking/internal/repository"
    "github.com/iliyamo/advisor-booking/internal/service"
)

// AdminHandler serves the JWT-protected management endpoints: booking
// listing and status transitions, email resends, the email audit log and
// the dashboard counters.
type AdminHandler struct {
    bookings *repository.BookingRepo
    emails   *repository.EmailLogRepo
    gateway  *repository.Gateway
    svc      *service.BookingService
}

// NewAdminHandler wires the management endpoints to their collaborators.
func NewAdminHandler(bookings *repository.BookingRepo, emails *repository.EmailLogRepo, gateway *repository.Gateway, svc *service.BookingService) *AdminHandler {
    return &AdminHandler{bookings: bookings, emails: emails, gateway: gateway, svc: svc}
}

// ListBookings returns bookings matching the optional filters, ordered
// by slot start ascending.  Date filters compare calendar dates and are
// inclusive on both ends.
// GET /api/admin/bookings?advisor_id=&status=&from_date=&to_date=
func (h *AdminHandler) ListBookings(c echo.Context) error {
    var f repository.AdminBookingFilter

    if s := c.QueryParam("advisor_id"); s != "" {
        id, err := strconv.ParseUint(s, 10, 64)
        if err != nil || id == 0 {
            return respondInvalid(c, "advisor_id must be a positive integer")
        }
        f.AdvisorID = id
    }
    if s := c.QueryParam("status"); s != "" {
        if !model.ValidBookingStatus(s) {
            return respondInvalid(c, "status must be one of confirmed, cancelled, completed")
        }
        f.Status = s
    }
    if s := c.QueryParam("from_date"); s != "" {
        t, err := time.Parse("2006-01-02", s)
        if err != nil {
            return respondInvalid(c, "from_date must be formatted YYYY-MM-DD")
        }
        f.FromDate = &t
    }
    if s := c.QueryParam("to_date"); s != "" {
        t, err := time.Parse("2006-01-02", s)
        if err != nil {
            return respondInvalid(c, "to_date must be formatted YYYY-MM-DD")
        }
        f.ToDate = &t
    }

    bookings, err := h.bookings.ListForAdmin(c.Request().Context(), f)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", echo.Map{"bookings": bookings, "count": len(bookings)})
}

// updateStatusRequest is the JSON body for the status transition.
type updateStatusRequest struct {
    Status string `json:"status"`
}

// UpdateStatus transitions a booking to a new status and reconciles the
// slot.  Invalid transitions and slot conflicts come back as 409s.
// PUT /api/admin/bookings/:id/status
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return respondInvalid(c, "booking id must be a positive integer")
    }
    var req updateStatusRequest
    if err := c.Bind(&req); err != nil {
        return respondInvalid(c, "malformed request body")
    }
    change, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "booking status updated", change)
}

// Delete cancels a booking.  Soft delete: the row is kept and
// transitioned to cancelled, which also frees the slot.
// DELETE /api/admin/bookings/:id
func (h *AdminHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return respondInvalid(c, "booking id must be a positive integer")
    }
    change, err := h.svc.Cancel(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "booking cancelled", change)
}

// ResendEmail appends a fresh pending confirmation log and re-dispatches
// the confirmation message for an existing booking.
// POST /api/admin/bookings/:id/resend-email
func (h *AdminHandler) ResendEmail(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return respondInvalid(c, "booking id must be a positive integer")
    }
    detail, err := h.svc.ResendConfirmation(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "confirmation email queued", echo.Map{"booking": detail})
}

// Stats returns the dashboard counters.
// GET /api/admin/stats
func (h *AdminHandler) Stats(c echo.Context) error {
    stats, err := h.gateway.GetStats(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", stats)
}

// EmailLogs lists email log rows, newest first, capped at 100.
// GET /api/admin/email-logs?type=&status=
func (h *AdminHandler) EmailLogs(c echo.Context) error {
    emailType := c.QueryParam("type")
    if emailType != "" && !model.ValidEmailType(emailType) {
        return respondInvalid(c, "type must be one of confirmation, reminder_24h, reminder_1h")
    }
    status := c.QueryParam("status")
    switch status {
    case "", model.EmailPending, model.EmailSent, model.EmailFailed:
    default:
        return respondInvalid(c, "status must be one of pending, sent, failed")
    }

    logs, err := h.emails.List(c.Request().Context(), emailType, status)
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "", echo.Map{"email_logs": logs, "count": len(logs)})
}
