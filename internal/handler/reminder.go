package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/advisor-booking/internal/scheduler"
)

// ReminderHandler exposes the reminder scheduler's control surface to
// admins: inspect state, start/stop the periodic loop and trigger a
// manual pass.
type ReminderHandler struct {
    sched *scheduler.Scheduler
}

// NewReminderHandler wires the scheduler control endpoints.
func NewReminderHandler(sched *scheduler.Scheduler) *ReminderHandler {
    return &ReminderHandler{sched: sched}
}

// Status reports whether the scheduler is running and when the next
// pass is due.
// GET /api/reminders/status
func (h *ReminderHandler) Status(c echo.Context) error {
    return respondOK(c, "", h.sched.Status())
}

// Start launches the periodic reminder loop.  Starting an already
// running scheduler is a no-op.
// POST /api/reminders/start
func (h *ReminderHandler) Start(c echo.Context) error {
    h.sched.Start()
    return respondOK(c, "scheduler started", h.sched.Status())
}

// Stop halts the periodic reminder loop.  Stopping an already stopped
// scheduler is a no-op.
// POST /api/reminders/stop
func (h *ReminderHandler) Stop(c echo.Context) error {
    h.sched.Stop()
    return respondOK(c, "scheduler stopped", h.sched.Status())
}

// Run triggers one reminder pass immediately, regardless of whether the
// periodic loop is running, and returns the batch summary.
// POST /api/reminders/run
func (h *ReminderHandler) Run(c echo.Context) error {
    summary, err := h.sched.RunNow(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return respondOK(c, "reminder pass completed", summary)
}
