package service

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/advisor-booking/internal/model"
    "github.com/iliyamo/advisor-booking/internal/repository"
)

func TestCreateBookingValidation(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
    svc := NewBookingService(store, newChanNotifier())

    cases := []struct {
        name   string
        slotID uint64
        client string
        email  string
    }{
        {"zero slot id", 0, "Alice Smith", "alice@example.com"},
        {"name too short", 1, "A", "alice@example.com"},
        {"name only spaces", 1, "   ", "alice@example.com"},
        {"missing at sign", 1, "Alice Smith", "alice.example.com"},
        {"missing tld", 1, "Alice Smith", "alice@example"},
        {"one letter tld", 1, "Alice Smith", "alice@example.c"},
        {"empty email", 1, "Alice Smith", ""},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := svc.Create(context.Background(), tc.slotID, tc.client, tc.email)
            assert.ErrorIs(t, err, ErrInvalidInput)
        })
    }
}

func TestCreateBookingNormalizesEmail(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
    svc := NewBookingService(store, newChanNotifier())

    detail, err := svc.Create(context.Background(), 1, "  Alice Smith  ", "  Alice@Example.COM ")
    require.NoError(t, err)
    assert.Equal(t, "alice@example.com", detail.ClientEmail)
    assert.Equal(t, "Alice Smith", detail.ClientName)
    assert.Equal(t, model.BookingConfirmed, detail.Status)
    assert.Equal(t, model.SlotBooked, store.slotStatus(1))
}

func TestCreateBookingSlotErrors(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotBlocked, time.Now().UTC().Add(48*time.Hour))
    svc := NewBookingService(store, newChanNotifier())

    _, err := svc.Create(context.Background(), 99, "Alice Smith", "alice@example.com")
    assert.ErrorIs(t, err, repository.ErrSlotNotFound)

    _, err = svc.Create(context.Background(), 1, "Alice Smith", "alice@example.com")
    assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
    svc := NewBookingService(store, newChanNotifier())

    const workers = 32
    var (
        wg       sync.WaitGroup
        mu       sync.Mutex
        won      int
        conflict int
    )
    start := make(chan struct{})
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            <-start
            _, err := svc.Create(context.Background(), 1, "Alice Smith", "alice@example.com")
            mu.Lock()
            defer mu.Unlock()
            switch {
            case err == nil:
                won++
            case errors.Is(err, repository.ErrSlotUnavailable):
                conflict++
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }()
    }
    close(start)
    wg.Wait()

    assert.Equal(t, 1, won, "exactly one booking should win the slot")
    assert.Equal(t, workers-1, conflict)
    assert.Equal(t, model.SlotBooked, store.slotStatus(1))
}

func TestCreateBookingDispatchesConfirmation(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
    notifier := newChanNotifier()
    svc := NewBookingService(store, notifier)

    detail, err := svc.Create(context.Background(), 1, "Alice Smith", "alice@example.com")
    require.NoError(t, err)

    select {
    case msg := <-notifier.ch:
        assert.Equal(t, detail.ID, msg.BookingID)
        assert.Equal(t, model.EmailConfirmation, msg.Type)
        assert.Equal(t, "alice@example.com", msg.Recipient)
        assert.Contains(t, msg.Subject, "confirmation")
    case <-time.After(2 * time.Second):
        t.Fatal("confirmation was never dispatched")
    }

    // The sent row is recorded after the transport accepts the message.
    assert.Eventually(t, func() bool {
        for _, l := range store.logEntries() {
            if l.BookingID == detail.ID && l.Type == model.EmailConfirmation && l.Status == model.EmailSent {
                return true
            }
        }
        return false
    }, 2*time.Second, 10*time.Millisecond)
}

func TestCreateBookingRecordsDispatchFailure(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
    notifier := newChanNotifier()
    notifier.failFor["alice@example.com"] = errors.New("broker unreachable")
    svc := NewBookingService(store, notifier)

    detail, err := svc.Create(context.Background(), 1, "Alice Smith", "alice@example.com")
    require.NoError(t, err, "a dispatch failure must not fail the booking")

    assert.Eventually(t, func() bool {
        for _, l := range store.logEntries() {
            if l.BookingID == detail.ID && l.Status == model.EmailFailed {
                return l.ErrMsg == "broker unreachable"
            }
        }
        return false
    }, 2*time.Second, 10*time.Millisecond)
}

func TestUpdateStatusTransitions(t *testing.T) {
    ctx := context.Background()

    t.Run("cancel frees the slot", func(t *testing.T) {
        store := newMemStore()
        store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
        id := store.addBooking(1, model.BookingConfirmed, "Alice Smith", "alice@example.com")
        svc := NewBookingService(store, newChanNotifier())

        change, err := svc.UpdateStatus(ctx, id, model.BookingCancelled)
        require.NoError(t, err)
        assert.Equal(t, model.BookingConfirmed, change.PreviousStatus)
        assert.Equal(t, model.BookingCancelled, change.NewStatus)
        assert.Equal(t, model.SlotFree, store.slotStatus(1))
    })

    t.Run("complete keeps the slot booked", func(t *testing.T) {
        store := newMemStore()
        store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
        id := store.addBooking(1, model.BookingConfirmed, "Alice Smith", "alice@example.com")
        svc := NewBookingService(store, newChanNotifier())

        _, err := svc.UpdateStatus(ctx, id, model.BookingCompleted)
        require.NoError(t, err)
        assert.Equal(t, model.SlotBooked, store.slotStatus(1))
    })

    t.Run("same status is rejected", func(t *testing.T) {
        store := newMemStore()
        store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
        id := store.addBooking(1, model.BookingConfirmed, "Alice Smith", "alice@example.com")
        svc := NewBookingService(store, newChanNotifier())

        _, err := svc.UpdateStatus(ctx, id, model.BookingConfirmed)
        assert.ErrorIs(t, err, repository.ErrInvalidTransition)
    })

    t.Run("unknown status is rejected before any persistence", func(t *testing.T) {
        store := newMemStore()
        svc := NewBookingService(store, newChanNotifier())

        _, err := svc.UpdateStatus(ctx, 1, "archived")
        assert.ErrorIs(t, err, ErrInvalidInput)
    })

    t.Run("missing booking", func(t *testing.T) {
        store := newMemStore()
        svc := NewBookingService(store, newChanNotifier())

        _, err := svc.UpdateStatus(ctx, 42, model.BookingCancelled)
        assert.ErrorIs(t, err, repository.ErrBookingNotFound)
    })

    t.Run("resurrection after the slot was re-let", func(t *testing.T) {
        store := newMemStore()
        store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
        cancelled := store.addBooking(1, model.BookingCancelled, "Alice Smith", "alice@example.com")
        store.addBooking(1, model.BookingConfirmed, "Bob Jones", "bob@example.com")
        svc := NewBookingService(store, newChanNotifier())

        _, err := svc.UpdateStatus(ctx, cancelled, model.BookingConfirmed)
        assert.ErrorIs(t, err, repository.ErrSlotConflict)
        assert.Equal(t, model.SlotBooked, store.slotStatus(1))
    })

    t.Run("reinstating onto a freed slot books it again", func(t *testing.T) {
        store := newMemStore()
        store.addSlot(1, model.SlotFree, time.Now().UTC().Add(48*time.Hour))
        cancelled := store.addBooking(1, model.BookingCancelled, "Alice Smith", "alice@example.com")
        svc := NewBookingService(store, newChanNotifier())

        change, err := svc.UpdateStatus(ctx, cancelled, model.BookingConfirmed)
        require.NoError(t, err)
        assert.Equal(t, model.BookingConfirmed, change.NewStatus)
        assert.Equal(t, model.SlotBooked, store.slotStatus(1))
    })
}

func TestCancelIsCancelledTransition(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
    id := store.addBooking(1, model.BookingConfirmed, "Alice Smith", "alice@example.com")
    svc := NewBookingService(store, newChanNotifier())

    change, err := svc.Cancel(context.Background(), id)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, change.NewStatus)
}

func TestResendConfirmation(t *testing.T) {
    store := newMemStore()
    store.addSlot(1, model.SlotBooked, time.Now().UTC().Add(48*time.Hour))
    id := store.addBooking(1, model.BookingConfirmed, "Alice Smith", "alice@example.com")
    notifier := newChanNotifier()
    svc := NewBookingService(store, notifier)

    _, err := svc.ResendConfirmation(context.Background(), id)
    require.NoError(t, err)

    // A fresh pending row is appended before the dispatch goes out.
    var pending bool
    for _, l := range store.logEntries() {
        if l.BookingID == id && l.Type == model.EmailConfirmation && l.Status == model.EmailPending {
            pending = true
        }
    }
    assert.True(t, pending, "resend should append a pending log row")

    select {
    case msg := <-notifier.ch:
        assert.Equal(t, model.EmailConfirmation, msg.Type)
    case <-time.After(2 * time.Second):
        t.Fatal("resend never dispatched")
    }

    _, err = svc.ResendConfirmation(context.Background(), 404)
    assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}
