package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/advisor-booking/internal/model"
)

var reminderBase = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// seedReminderStore creates one confirmed booking whose slot starts at
// the given offset from reminderBase.
func seedReminderStore(store *memStore, slotID uint64, offset time.Duration, email string) uint64 {
    store.addSlot(slotID, model.SlotBooked, reminderBase.Add(offset))
    return store.addBooking(slotID, model.BookingConfirmed, "Alice Smith", email)
}

func TestFindDueBookingsWindows(t *testing.T) {
    store := newMemStore()
    in24h := seedReminderStore(store, 1, 23*time.Hour+30*time.Minute, "a@example.com")
    seedReminderStore(store, 2, 26*time.Hour, "b@example.com")
    in1h := seedReminderStore(store, 3, time.Hour, "c@example.com")
    seedReminderStore(store, 4, 30*time.Minute, "d@example.com")
    // Cancelled bookings are never due.
    store.addSlot(5, model.SlotFree, reminderBase.Add(24*time.Hour))
    store.addBooking(5, model.BookingCancelled, "Eve Adams", "e@example.com")

    svc := NewReminderService(store, newChanNotifier(), fakeClock{reminderBase})
    ctx := context.Background()

    due24, err := svc.FindDueBookings(ctx, model.EmailReminder24h)
    require.NoError(t, err)
    require.Len(t, due24, 1)
    assert.Equal(t, in24h, due24[0].ID)

    due1, err := svc.FindDueBookings(ctx, model.EmailReminder1h)
    require.NoError(t, err)
    require.Len(t, due1, 1)
    assert.Equal(t, in1h, due1[0].ID)

    _, err = svc.FindDueBookings(ctx, "reminder_5m")
    assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWindowBoundsInclusive(t *testing.T) {
    store := newMemStore()
    lower := seedReminderStore(store, 1, 23*time.Hour, "a@example.com")
    upper := seedReminderStore(store, 2, 25*time.Hour, "b@example.com")
    seedReminderStore(store, 3, 25*time.Hour+time.Second, "c@example.com")

    svc := NewReminderService(store, newChanNotifier(), fakeClock{reminderBase})
    due, err := svc.FindDueBookings(context.Background(), model.EmailReminder24h)
    require.NoError(t, err)

    ids := make(map[uint64]bool, len(due))
    for _, d := range due {
        ids[d.ID] = true
    }
    assert.True(t, ids[lower], "booking exactly at now+23h is due")
    assert.True(t, ids[upper], "booking exactly at now+25h is due")
    assert.Len(t, due, 2)
}

func TestSendRemindersIdempotent(t *testing.T) {
    store := newMemStore()
    id := seedReminderStore(store, 1, 24*time.Hour, "a@example.com")
    notifier := newChanNotifier()
    svc := NewReminderService(store, notifier, fakeClock{reminderBase})
    ctx := context.Background()

    res, err := svc.SendReminders(ctx, model.EmailReminder24h)
    require.NoError(t, err)
    assert.Equal(t, BatchResult{Sent: 1, Errors: 0}, res)

    // The sent log row now gates the booking out of the next scan.
    res, err = svc.SendReminders(ctx, model.EmailReminder24h)
    require.NoError(t, err)
    assert.Equal(t, BatchResult{}, res)

    var sentRows int
    for _, l := range store.logEntries() {
        if l.BookingID == id && l.Type == model.EmailReminder24h && l.Status == model.EmailSent {
            sentRows++
        }
    }
    assert.Equal(t, 1, sentRows)
}

func TestSendRemindersPerTypeIndependence(t *testing.T) {
    // A slot one hour out can sit in both windows over its lifetime;
    // the sent gate is per type, so a 24h row never blocks the 1h one.
    store := newMemStore()
    id := seedReminderStore(store, 1, time.Hour, "a@example.com")
    require.NoError(t, store.RecordEmailResult(context.Background(), id,
        model.EmailReminder24h, model.EmailSent, "", reminderBase.Add(-23*time.Hour)))

    svc := NewReminderService(store, newChanNotifier(), fakeClock{reminderBase})
    res, err := svc.SendReminders(context.Background(), model.EmailReminder1h)
    require.NoError(t, err)
    assert.Equal(t, BatchResult{Sent: 1, Errors: 0}, res)
}

func TestSendRemindersFailureIsolation(t *testing.T) {
    store := newMemStore()
    seedReminderStore(store, 1, 24*time.Hour, "good@example.com")
    failing := seedReminderStore(store, 2, 24*time.Hour, "bad@example.com")
    notifier := newChanNotifier()
    notifier.failFor["bad@example.com"] = errors.New("mailbox on fire")
    svc := NewReminderService(store, notifier, fakeClock{reminderBase})
    ctx := context.Background()

    res, err := svc.SendReminders(ctx, model.EmailReminder24h)
    require.NoError(t, err)
    assert.Equal(t, BatchResult{Sent: 1, Errors: 1}, res)

    // The failed booking stays due: only a sent row removes it.
    due, err := svc.FindDueBookings(ctx, model.EmailReminder24h)
    require.NoError(t, err)
    require.Len(t, due, 1)
    assert.Equal(t, failing, due[0].ID)

    var failedLogged bool
    for _, l := range store.logEntries() {
        if l.BookingID == failing && l.Status == model.EmailFailed {
            failedLogged = true
            assert.Equal(t, "mailbox on fire", l.ErrMsg)
        }
    }
    assert.True(t, failedLogged, "failure should be recorded on the email log")
}

func TestProcessAllAggregates(t *testing.T) {
    store := newMemStore()
    seedReminderStore(store, 1, 24*time.Hour, "a@example.com")
    seedReminderStore(store, 2, 23*time.Hour+15*time.Minute, "b@example.com")
    seedReminderStore(store, 3, time.Hour, "c@example.com")
    notifier := newChanNotifier()
    notifier.failFor["b@example.com"] = errors.New("bounce")
    svc := NewReminderService(store, notifier, fakeClock{reminderBase})

    sum, err := svc.ProcessAll(context.Background())
    require.NoError(t, err)
    assert.Equal(t, BatchResult{Sent: 1, Errors: 1}, sum.Reminder24h)
    assert.Equal(t, BatchResult{Sent: 1, Errors: 0}, sum.Reminder1h)
    assert.Equal(t, BatchResult{Sent: 2, Errors: 1}, sum.Total)
}

func TestReminderMessageContent(t *testing.T) {
    store := newMemStore()
    seedReminderStore(store, 1, 24*time.Hour, "a@example.com")
    notifier := newChanNotifier()
    svc := NewReminderService(store, notifier, fakeClock{reminderBase})

    _, err := svc.SendReminders(context.Background(), model.EmailReminder24h)
    require.NoError(t, err)

    msgs := notifier.messages()
    require.Len(t, msgs, 1)
    assert.Equal(t, model.EmailReminder24h, msgs[0].Type)
    assert.Equal(t, "a@example.com", msgs[0].Recipient)
    assert.Contains(t, msgs[0].Subject, "24 hours")
}
