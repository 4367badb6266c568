package model

import "time"

// Booking status values.  Bookings are created as `confirmed`; admins
// may cancel or complete them later.  Cancellation frees the slot,
// so a slot can accumulate several cancelled bookings over time but
// holds at most one confirmed/completed booking at any instant.
const (
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"
    BookingCompleted = "completed"
)

// ValidBookingStatus reports whether s is one of the three booking
// statuses accepted by the status-transition engine.
func ValidBookingStatus(s string) bool {
    switch s {
    case BookingConfirmed, BookingCancelled, BookingCompleted:
        return true
    }
    return false
}

// Booking records a client's reservation against exactly one slot,
// as stored in the `bookings` table.  The advisor is denormalized
// from the slot at creation time so listing queries avoid a join
// through time_slots.
//
// Fields:
//  ID          – primary key identifier.
//  SlotID      – the reserved slot.
//  AdvisorID   – advisor copied from the slot.
//  ClientName  – trimmed display name of the client.
//  ClientEmail – lower-cased, trimmed client email.
//  Status      – lifecycle status (confirmed, cancelled, completed).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    SlotID      uint64    // bookings.slot_id
    AdvisorID   uint64    // bookings.advisor_id
    ClientName  string    // bookings.client_name
    ClientEmail string    // bookings.client_email
    Status      string    // bookings.status
    CreatedAt   time.Time // bookings.created_at
    UpdatedAt   time.Time // bookings.updated_at
}
