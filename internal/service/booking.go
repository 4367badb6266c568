package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
    "github.com/iliyamo/advisor-booking/internal/notify"
    "github.com/iliyamo/advisor-booking/internal/repository"
)

// BookingService is the slot-booking and status-transition engine.
// It validates input, delegates the transactional work to the Store,
// and dispatches notifications outside the transaction so a slow
// transport never extends a row lock.
type BookingService struct {
    store    Store
    notifier notify.Notifier
}

// NewBookingService constructs a BookingService.  Both dependencies
// must be non-nil.
func NewBookingService(store Store, notifier notify.Notifier) *BookingService {
    if store == nil || notifier == nil {
        panic("nil dependency passed to NewBookingService")
    }
    return &BookingService{store: store, notifier: notifier}
}

// dispatchTimeout bounds a single notification send.  Dispatch runs
// outside the booking transaction and off the request goroutine, so
// the bound only protects the background goroutine from hanging.
const dispatchTimeout = 15 * time.Second

// Create reserves a slot for a client.  Validation happens before any
// transaction opens; the Store then claims the slot atomically.  On
// success a confirmation email is dispatched fire-and-forget: a
// transport failure is recorded in the email log and never affects the
// caller's result.
func (s *BookingService) Create(ctx context.Context, slotID uint64, clientName, clientEmail string) (*repository.BookingDetail, error) {
    name, email, err := validateBookingInput(slotID, clientName, clientEmail)
    if err != nil {
        return nil, err
    }
    detail, err := s.store.CreateBooking(ctx, slotID, name, email)
    if err != nil {
        return nil, err
    }
    // Best-effort confirmation; detached from the request context so
    // the response does not wait on the transport.
    go s.dispatch(*detail, model.EmailConfirmation)
    return detail, nil
}

// UpdateStatus applies an admin status transition.  The Store enforces
// the transition table: same-status changes are ErrInvalidTransition,
// cancellation frees the slot, and confirm/complete re-verifies slot
// occupancy.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uint64, newStatus string) (*repository.StatusChange, error) {
    if bookingID == 0 {
        return nil, fmt.Errorf("%w: booking id must be a positive integer", ErrInvalidInput)
    }
    if !model.ValidBookingStatus(newStatus) {
        return nil, fmt.Errorf("%w: status must be confirmed, cancelled or completed", ErrInvalidInput)
    }
    return s.store.UpdateBookingStatus(ctx, bookingID, newStatus)
}

// Cancel is the admin "delete booking" operation: a transition to
// cancelled, never a physical delete, so the audit trail survives.
func (s *BookingService) Cancel(ctx context.Context, bookingID uint64) (*repository.StatusChange, error) {
    return s.UpdateStatus(ctx, bookingID, model.BookingCancelled)
}

// ResendConfirmation appends a pending confirmation row and dispatches
// the confirmation email again.  The dispatch result is recorded like
// any other attempt; multiple rows per (booking, confirmation) are
// expected on the append-only trail.
func (s *BookingService) ResendConfirmation(ctx context.Context, bookingID uint64) (*repository.BookingDetail, error) {
    if bookingID == 0 {
        return nil, fmt.Errorf("%w: booking id must be a positive integer", ErrInvalidInput)
    }
    detail, err := s.store.GetBookingDetail(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if err := s.store.InsertPendingEmail(ctx, bookingID, model.EmailConfirmation); err != nil {
        return nil, err
    }
    go s.dispatch(*detail, model.EmailConfirmation)
    return detail, nil
}

// dispatch sends one notification and records the outcome on the email
// log.  It runs on its own goroutine with a fresh bounded context; any
// error here is logged and swallowed, per the notification-failure
// policy.
func (s *BookingService) dispatch(b repository.BookingDetail, emailType string) {
    ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
    defer cancel()

    msg := buildMessage(b, emailType)
    sendErr := s.notifier.Send(ctx, msg)
    status := model.EmailSent
    errMsg := ""
    if sendErr != nil {
        status = model.EmailFailed
        errMsg = sendErr.Error()
        log.Printf("booking: %s dispatch failed for booking %d: %v", emailType, b.ID, sendErr)
    }
    if err := s.store.RecordEmailResult(ctx, b.ID, emailType, status, errMsg, time.Now().UTC()); err != nil {
        log.Printf("booking: failed to record %s email log for booking %d: %v", emailType, b.ID, err)
    }
}

// buildMessage assembles the outbound message for a booking and email
// type.  Subjects follow the original notification copy: confirmations
// name the advisor, reminders name the lead time.
func buildMessage(b repository.BookingDetail, emailType string) notify.Message {
    var subject string
    switch emailType {
    case model.EmailReminder24h:
        subject = fmt.Sprintf("Appointment reminder - %s in 24 hours", b.AdvisorName)
    case model.EmailReminder1h:
        subject = fmt.Sprintf("Appointment reminder - %s in 1 hour", b.AdvisorName)
    default:
        subject = fmt.Sprintf("Appointment confirmation - %s", b.AdvisorName)
    }
    return notify.Message{
        BookingID:   b.ID,
        Type:        emailType,
        Recipient:   b.ClientEmail,
        ClientName:  b.ClientName,
        AdvisorName: b.AdvisorName,
        Timezone:    b.AdvisorTimezone,
        StartUTC:    b.StartUTC,
        EndUTC:      b.EndUTC,
        Subject:     subject,
    }
}
