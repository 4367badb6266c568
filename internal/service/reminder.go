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

// Reminder windows.  The slack around the nominal lead time (24h, 1h)
// absorbs the scheduler's 5-minute polling granularity plus processing
// delay; if the poll interval ever changes these constants must scale
// with it.
const (
    Window24hStart = 23 * time.Hour
    Window24hEnd   = 25 * time.Hour
    Window1hStart  = 55 * time.Minute
    Window1hEnd    = 65 * time.Minute
)

// ReminderService is the reminder scan-and-dispatch engine.  Due-ness
// is decided by the Store (no sent log for the (booking, type) pair),
// which makes dispatch idempotent across overlapping scan cycles and
// process restarts: at-least-once attempts, at-most-one recorded
// success per type.
type ReminderService struct {
    store    Store
    notifier notify.Notifier
    clock    Clock
}

// NewReminderService constructs a ReminderService.  A nil clock
// defaults to the system clock.
func NewReminderService(store Store, notifier notify.Notifier, clock Clock) *ReminderService {
    if store == nil || notifier == nil {
        panic("nil dependency passed to NewReminderService")
    }
    if clock == nil {
        clock = SystemClock{}
    }
    return &ReminderService{store: store, notifier: notifier, clock: clock}
}

// windowFor maps a reminder type to its scan window offsets.
func windowFor(reminderType string) (start, end time.Duration, err error) {
    switch reminderType {
    case model.EmailReminder24h:
        return Window24hStart, Window24hEnd, nil
    case model.EmailReminder1h:
        return Window1hStart, Window1hEnd, nil
    }
    return 0, 0, fmt.Errorf("%w: unknown reminder type %q", ErrInvalidInput, reminderType)
}

// FindDueBookings returns the confirmed bookings due for the given
// reminder type: slot start inside [now+windowStart, now+windowEnd]
// and no sent log of that type yet.
func (s *ReminderService) FindDueBookings(ctx context.Context, reminderType string) ([]repository.BookingDetail, error) {
    start, end, err := windowFor(reminderType)
    if err != nil {
        return nil, err
    }
    now := s.clock.Now()
    return s.store.FindDueReminders(ctx, now.Add(start), now.Add(end), reminderType)
}

// BatchResult counts the outcome of one reminder batch.
type BatchResult struct {
    Sent   int `json:"sent"`
    Errors int `json:"errors"`
}

// SendReminders dispatches one reminder type to every due booking.
// Each booking's outcome is recorded on the email log; a dispatch
// failure is counted and the batch continues, so one bad address never
// starves the rest.  The returned counts are best-effort totals.
func (s *ReminderService) SendReminders(ctx context.Context, reminderType string) (BatchResult, error) {
    due, err := s.FindDueBookings(ctx, reminderType)
    if err != nil {
        return BatchResult{}, err
    }
    var res BatchResult
    for _, b := range due {
        if err := s.sendOne(ctx, b, reminderType); err != nil {
            res.Errors++
            log.Printf("reminder: %s dispatch failed for booking %d: %v", reminderType, b.ID, err)
            continue
        }
        res.Sent++
    }
    log.Printf("reminder: %s batch done: %d sent, %d errors", reminderType, res.Sent, res.Errors)
    return res, nil
}

// sendOne dispatches a single reminder and records the outcome.  The
// sent row is written only after the transport accepted the message;
// its existence is what removes the booking from future scans.
func (s *ReminderService) sendOne(ctx context.Context, b repository.BookingDetail, reminderType string) error {
    sendErr := s.notifier.Send(ctx, buildMessage(b, reminderType))
    status := model.EmailSent
    errMsg := ""
    if sendErr != nil {
        status = model.EmailFailed
        errMsg = sendErr.Error()
    }
    if err := s.store.RecordEmailResult(ctx, b.ID, reminderType, status, errMsg, s.clock.Now()); err != nil {
        log.Printf("reminder: failed to record %s email log for booking %d: %v", reminderType, b.ID, err)
        if sendErr == nil {
            return err
        }
    }
    return sendErr
}

// Summary aggregates one full reminder pass.
type Summary struct {
    Reminder24h BatchResult `json:"reminder_24h"`
    Reminder1h  BatchResult `json:"reminder_1h"`
    Total       BatchResult `json:"total"`
}

// ProcessAll runs the 24-hour batch followed by the 1-hour batch and
// aggregates the counts.  This is the unit the scheduler ticks and the
// manual trigger invokes.  A scan error in one batch is reported but
// does not skip the other batch.
func (s *ReminderService) ProcessAll(ctx context.Context) (Summary, error) {
    var (
        sum      Summary
        firstErr error
    )
    r24, err := s.SendReminders(ctx, model.EmailReminder24h)
    if err != nil {
        firstErr = err
    }
    sum.Reminder24h = r24

    r1, err := s.SendReminders(ctx, model.EmailReminder1h)
    if err != nil && firstErr == nil {
        firstErr = err
    }
    sum.Reminder1h = r1

    sum.Total = BatchResult{
        Sent:   r24.Sent + r1.Sent,
        Errors: r24.Errors + r1.Errors,
    }
    return sum, firstErr
}
