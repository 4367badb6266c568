// Package service implements the three core engines: slot booking,
// status transitions, and reminder dispatch.  The engines hold the
// business rules; persistence is behind the Store interface (satisfied
// by repository.Gateway) and email transport behind notify.Notifier,
// so all engine behavior is testable with in-memory fakes.
package service

import (
    "context"
    "time"

    "github.com/iliyamo/advisor-booking/internal/repository"
)

// Store is the persistence capability the engines consume.  The
// transactional operations (CreateBooking, UpdateBookingStatus)
// encapsulate their own lock-then-check-then-mutate ordering; the
// engines never see a transaction handle.
type Store interface {
    // CreateBooking atomically claims a free slot: exactly one of any
    // set of concurrent calls on the same slot succeeds.
    CreateBooking(ctx context.Context, slotID uint64, clientName, clientEmail string) (*repository.BookingDetail, error)
    // UpdateBookingStatus applies a status transition and reconciles
    // slot occupancy in one transaction.
    UpdateBookingStatus(ctx context.Context, bookingID uint64, newStatus string) (*repository.StatusChange, error)
    // FindDueReminders returns confirmed bookings starting within
    // [from, to] that have no sent log of the given reminder type.
    FindDueReminders(ctx context.Context, from, to time.Time, reminderType string) ([]repository.BookingDetail, error)
    // RecordEmailResult appends a sent/failed row to the email audit
    // trail.
    RecordEmailResult(ctx context.Context, bookingID uint64, emailType, status, errMsg string, sentAt time.Time) error
    // GetBookingDetail loads one booking with slot and advisor joined.
    GetBookingDetail(ctx context.Context, bookingID uint64) (*repository.BookingDetail, error)
    // InsertPendingEmail appends a pending row (resend path).
    InsertPendingEmail(ctx context.Context, bookingID uint64, emailType string) error
}

// Clock abstracts wall-clock reads so the reminder windows and the
// scheduler can be tested deterministically.
type Clock interface {
    Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
