package service

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
    "github.com/iliyamo/advisor-booking/internal/notify"
    "github.com/iliyamo/advisor-booking/internal/repository"
)

// fakeClock returns a fixed instant.
type fakeClock struct {
    t time.Time
}

func (c fakeClock) Now() time.Time { return c.t }

// emailLogEntry is one recorded email log row in the fake store.
type emailLogEntry struct {
    BookingID uint64
    Type      string
    Status    string
    ErrMsg    string
    SentAt    time.Time
}

// fakeSlot mirrors a time_slots row.
type fakeSlot struct {
    Status   string
    StartUTC time.Time
    EndUTC   time.Time
}

// fakeBooking mirrors a bookings row.
type fakeBooking struct {
    SlotID      uint64
    ClientName  string
    ClientEmail string
    Status      string
}

// memStore is an in-memory Store.  A single mutex plays the role the
// row locks play in the real gateway: every operation is atomic with
// respect to the others, so of any set of concurrent CreateBooking
// calls on one slot exactly one observes it free.
type memStore struct {
    mu       sync.Mutex
    slots    map[uint64]*fakeSlot
    bookings map[uint64]*fakeBooking
    logs     []emailLogEntry
    nextID   uint64
}

func newMemStore() *memStore {
    return &memStore{
        slots:    make(map[uint64]*fakeSlot),
        bookings: make(map[uint64]*fakeBooking),
        nextID:   1,
    }
}

func (m *memStore) addSlot(id uint64, status string, start time.Time) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.slots[id] = &fakeSlot{Status: status, StartUTC: start, EndUTC: start.Add(time.Hour)}
}

// addBooking seeds a booking directly, bypassing slot checks.
func (m *memStore) addBooking(slotID uint64, status, name, email string) uint64 {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.nextID
    m.nextID++
    m.bookings[id] = &fakeBooking{SlotID: slotID, ClientName: name, ClientEmail: email, Status: status}
    return id
}

func (m *memStore) slotStatus(id uint64) string {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.slots[id].Status
}

func (m *memStore) logEntries() []emailLogEntry {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := make([]emailLogEntry, len(m.logs))
    copy(out, m.logs)
    return out
}

func (m *memStore) detailLocked(id uint64) *repository.BookingDetail {
    b := m.bookings[id]
    s := m.slots[b.SlotID]
    return &repository.BookingDetail{
        ID:              id,
        SlotID:          b.SlotID,
        ClientName:      b.ClientName,
        ClientEmail:     b.ClientEmail,
        AdvisorName:     "Sarah Chen",
        AdvisorTimezone: "America/New_York",
        StartUTC:        s.StartUTC,
        EndUTC:          s.EndUTC,
        Status:          b.Status,
    }
}

func (m *memStore) CreateBooking(_ context.Context, slotID uint64, clientName, clientEmail string) (*repository.BookingDetail, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    slot, ok := m.slots[slotID]
    if !ok {
        return nil, repository.ErrSlotNotFound
    }
    if slot.Status != model.SlotFree {
        return nil, repository.ErrSlotUnavailable
    }
    id := m.nextID
    m.nextID++
    m.bookings[id] = &fakeBooking{SlotID: slotID, ClientName: clientName, ClientEmail: clientEmail, Status: model.BookingConfirmed}
    slot.Status = model.SlotBooked
    m.logs = append(m.logs, emailLogEntry{BookingID: id, Type: model.EmailConfirmation, Status: model.EmailPending})
    return m.detailLocked(id), nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, bookingID uint64, newStatus string) (*repository.StatusChange, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    b, ok := m.bookings[bookingID]
    if !ok {
        return nil, repository.ErrBookingNotFound
    }
    if b.Status == newStatus {
        return nil, repository.ErrInvalidTransition
    }
    prev := b.Status
    slot := m.slots[b.SlotID]
    if newStatus == model.BookingCancelled {
        slot.Status = model.SlotFree
    } else {
        for id, other := range m.bookings {
            if id == bookingID || other.SlotID != b.SlotID {
                continue
            }
            if other.Status == model.BookingConfirmed || other.Status == model.BookingCompleted {
                return nil, repository.ErrSlotConflict
            }
        }
        slot.Status = model.SlotBooked
    }
    b.Status = newStatus
    return &repository.StatusChange{BookingID: bookingID, PreviousStatus: prev, NewStatus: newStatus}, nil
}

func (m *memStore) FindDueReminders(_ context.Context, from, to time.Time, reminderType string) ([]repository.BookingDetail, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    var due []repository.BookingDetail
    for id, b := range m.bookings {
        if b.Status != model.BookingConfirmed {
            continue
        }
        start := m.slots[b.SlotID].StartUTC
        if start.Before(from) || start.After(to) {
            continue
        }
        sent := false
        for _, l := range m.logs {
            if l.BookingID == id && l.Type == reminderType && l.Status == model.EmailSent {
                sent = true
                break
            }
        }
        if !sent {
            due = append(due, *m.detailLocked(id))
        }
    }
    return due, nil
}

func (m *memStore) RecordEmailResult(_ context.Context, bookingID uint64, emailType, status, errMsg string, sentAt time.Time) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.logs = append(m.logs, emailLogEntry{BookingID: bookingID, Type: emailType, Status: status, ErrMsg: errMsg, SentAt: sentAt})
    return nil
}

func (m *memStore) GetBookingDetail(_ context.Context, bookingID uint64) (*repository.BookingDetail, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if _, ok := m.bookings[bookingID]; !ok {
        return nil, repository.ErrBookingNotFound
    }
    return m.detailLocked(bookingID), nil
}

func (m *memStore) InsertPendingEmail(_ context.Context, bookingID uint64, emailType string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.logs = append(m.logs, emailLogEntry{BookingID: bookingID, Type: emailType, Status: model.EmailPending})
    return nil
}

// chanNotifier records sent messages and signals each delivery on a
// channel so tests can wait for fire-and-forget dispatches.  failFor
// makes Send fail for the listed recipients.
type chanNotifier struct {
    mu      sync.Mutex
    sent    []notify.Message
    failFor map[string]error
    ch      chan notify.Message
}

func newChanNotifier() *chanNotifier {
    return &chanNotifier{failFor: make(map[string]error), ch: make(chan notify.Message, 64)}
}

func (n *chanNotifier) Send(_ context.Context, msg notify.Message) error {
    n.mu.Lock()
    err := n.failFor[msg.Recipient]
    if err == nil {
        n.sent = append(n.sent, msg)
    }
    n.mu.Unlock()
    n.ch <- msg
    return err
}

func (n *chanNotifier) messages() []notify.Message {
    n.mu.Lock()
    defer n.mu.Unlock()
    out := make([]notify.Message, len(n.sent))
    copy(out, n.sent)
    return out
}
