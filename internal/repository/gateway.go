package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// Gateway is the transactional persistence gateway consumed by the
// booking and reminder engines.  It is the sole mutator of slot and
// booking state: every state decision happens inside a single
// transaction, after the relevant row locks are held, so decisions are
// always made on fresh state.  The engines depend on this type through
// their own Store interface, which keeps them testable without a
// database.
type Gateway struct {
    db       *sql.DB
    slots    *SlotRepo
    bookings *BookingRepo
    emails   *EmailLogRepo
}

// NewGateway builds a Gateway and its repositories over one database
// handle.
func NewGateway(db *sql.DB) *Gateway {
    return &Gateway{
        db:       db,
        slots:    NewSlotRepo(db),
        bookings: NewBookingRepo(db),
        emails:   NewEmailLogRepo(db),
    }
}

// DB exposes the underlying handle for repositories constructed by the
// caller (handlers share the same pool).
func (g *Gateway) DB() *sql.DB { return g.db }

// withTx runs fn inside a transaction, committing on nil error and
// rolling back otherwise.  txTimeout bounds the whole transaction so a
// stalled lock wait aborts atomically instead of holding the row lock
// indefinitely.
const txTimeout = 10 * time.Second

func (g *Gateway) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
    ctx, cancel := context.WithTimeout(ctx, txTimeout)
    defer cancel()
    tx, err := g.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(ctx, tx); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// CreateBooking claims a free slot for a client inside one
// transaction: lock the slot row, verify it is free, insert the
// booking with the advisor denormalized from the slot, flip the slot
// to booked, and append the pending confirmation email log.  Exactly
// one of any set of concurrent callers succeeds; the rest receive
// ErrSlotUnavailable.  The returned detail includes the advisor and
// interval so the caller can dispatch the confirmation without
// another query.
func (g *Gateway) CreateBooking(ctx context.Context, slotID uint64, clientName, clientEmail string) (*BookingDetail, error) {
    var detail *BookingDetail
    err := g.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
        slot, err := g.slots.GetForUpdateTx(ctx, tx, slotID)
        if err != nil {
            return err
        }
        if slot.Status != model.SlotFree {
            return ErrSlotUnavailable
        }
        b := &model.Booking{
            SlotID:      slot.ID,
            AdvisorID:   slot.AdvisorID,
            ClientName:  clientName,
            ClientEmail: clientEmail,
            Status:      model.BookingConfirmed,
        }
        if err := g.bookings.CreateTx(ctx, tx, b); err != nil {
            return err
        }
        if err := g.slots.UpdateStatusTx(ctx, tx, slot.ID, model.SlotBooked); err != nil {
            return err
        }
        if err := g.emails.InsertTx(ctx, tx, b.ID, model.EmailConfirmation, model.EmailPending); err != nil {
            return err
        }
        detail, err = g.bookings.GetDetailTx(ctx, tx, b.ID)
        return err
    })
    if err != nil {
        return nil, err
    }
    return detail, nil
}

// StatusChange reports the before/after of a booking status
// transition.
type StatusChange struct {
    BookingID      uint64 `json:"booking_id"`
    PreviousStatus string `json:"previous_status"`
    NewStatus      string `json:"new_status"`
}

// UpdateBookingStatus applies an admin status transition and
// reconciles slot occupancy in one transaction.  The booking row is
// locked first, then the slot, so concurrent transitions on the same
// booking serialize and concurrent booking creation on the same slot
// cannot interleave.  Same-status changes are rejected with
// ErrInvalidTransition.  Cancelling always frees the slot; confirming
// or completing re-verifies that no other confirmed/completed booking
// holds the slot and fails with ErrSlotConflict when one does.
func (g *Gateway) UpdateBookingStatus(ctx context.Context, bookingID uint64, newStatus string) (*StatusChange, error) {
    var change *StatusChange
    err := g.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
        b, err := g.bookings.GetForUpdateTx(ctx, tx, bookingID)
        if err != nil {
            return err
        }
        if b.Status == newStatus {
            return ErrInvalidTransition
        }
        // Lock the slot row for the occupancy change below.
        if _, err := g.slots.GetForUpdateTx(ctx, tx, b.SlotID); err != nil {
            return err
        }
        if err := g.bookings.UpdateStatusTx(ctx, tx, bookingID, newStatus); err != nil {
            return err
        }
        switch newStatus {
        case model.BookingCancelled:
            if err := g.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotFree); err != nil {
                return err
            }
        case model.BookingConfirmed, model.BookingCompleted:
            occupied, err := g.bookings.OtherActiveOnSlotTx(ctx, tx, b.SlotID, bookingID)
            if err != nil {
                return err
            }
            if occupied {
                return ErrSlotConflict
            }
            if err := g.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotBooked); err != nil {
                return err
            }
        }
        change = &StatusChange{BookingID: bookingID, PreviousStatus: b.Status, NewStatus: newStatus}
        return nil
    })
    if err != nil {
        return nil, err
    }
    return change, nil
}

// FindDueReminders forwards to the booking repository; part of the
// engines' Store interface.
func (g *Gateway) FindDueReminders(ctx context.Context, from, to time.Time, reminderType string) ([]BookingDetail, error) {
    return g.bookings.FindDueReminders(ctx, from, to, reminderType)
}

// RecordEmailResult forwards to the email log repository; part of the
// engines' Store interface.
func (g *Gateway) RecordEmailResult(ctx context.Context, bookingID uint64, emailType, status, errMsg string, sentAt time.Time) error {
    return g.emails.RecordResult(ctx, bookingID, emailType, status, errMsg, sentAt)
}

// GetBookingDetail forwards to the booking repository; part of the
// engines' Store interface (resend path).
func (g *Gateway) GetBookingDetail(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
    return g.bookings.GetDetail(ctx, bookingID)
}

// InsertPendingEmail forwards to the email log repository; part of the
// engines' Store interface (resend path).
func (g *Gateway) InsertPendingEmail(ctx context.Context, bookingID uint64, emailType string) error {
    return g.emails.InsertPending(ctx, bookingID, emailType)
}

// Stats aggregates the counters shown on the admin dashboard.
type Stats struct {
    TotalBookings     uint64 `json:"total_bookings"`
    ConfirmedBookings uint64 `json:"confirmed_bookings"`
    CancelledBookings uint64 `json:"cancelled_bookings"`
    CompletedBookings uint64 `json:"completed_bookings"`
    TotalAdvisors     uint64 `json:"total_advisors"`
    AvailableSlots    uint64 `json:"available_slots"`
    BookedSlots       uint64 `json:"booked_slots"`
    BlockedSlots      uint64 `json:"blocked_slots"`
    PendingEmails     uint64 `json:"pending_emails"`
    SentEmails        uint64 `json:"sent_emails"`
    FailedEmails      uint64 `json:"failed_emails"`
}

// GetStats collects the dashboard counters in a single statement.
// The pending count ignores (booking, type) pairs that already have a
// sent row, so resends that eventually succeeded do not linger as
// pending.
func (g *Gateway) GetStats(ctx context.Context) (*Stats, error) {
    const q = `SELECT
        (SELECT COUNT(*) FROM bookings),
        (SELECT COUNT(*) FROM bookings WHERE status = 'confirmed'),
        (SELECT COUNT(*) FROM bookings WHERE status = 'cancelled'),
        (SELECT COUNT(*) FROM bookings WHERE status = 'completed'),
        (SELECT COUNT(*) FROM advisors),
        (SELECT COUNT(*) FROM time_slots WHERE status = 'free'),
        (SELECT COUNT(*) FROM time_slots WHERE status = 'booked'),
        (SELECT COUNT(*) FROM time_slots WHERE status = 'blocked'),
        (SELECT COUNT(DISTINCT el.booking_id) FROM email_logs el
            WHERE el.status = 'pending'
              AND NOT EXISTS (
                  SELECT 1 FROM email_logs el2
                  WHERE el2.booking_id = el.booking_id
                    AND el2.type = el.type
                    AND el2.status = 'sent'
              )),
        (SELECT COUNT(*) FROM email_logs WHERE status = 'sent'),
        (SELECT COUNT(*) FROM email_logs WHERE status = 'failed')`
    var s Stats
    err := g.db.QueryRowContext(ctx, q).Scan(
        &s.TotalBookings, &s.ConfirmedBookings, &s.CancelledBookings, &s.CompletedBookings,
        &s.TotalAdvisors, &s.AvailableSlots, &s.BookedSlots, &s.BlockedSlots,
        &s.PendingEmails, &s.SentEmails, &s.FailedEmails,
    )
    if err != nil {
        return nil, err
    }
    return &s, nil
}
