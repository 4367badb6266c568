package model

import "time"

// Slot status values.  A slot is `free` until a booking claims it,
// `booked` while an active booking holds it, and `blocked` when an
// admin has withdrawn it from sale.  Transitions between free and
// booked happen only inside repository transactions.
const (
    SlotFree    = "free"
    SlotBooked  = "booked"
    SlotBlocked = "blocked"
)

// TimeSlot represents a fixed-duration, advisor-owned interval in the
// `time_slots` table.  The interval is half-open `[StartUTC, EndUTC)`
// and unique per (advisor_id, start_utc, end_utc).
//
// Fields:
//  ID        – primary key identifier.
//  AdvisorID – owning advisor.
//  StartUTC  – interval start instant in UTC.
//  EndUTC    – interval end instant in UTC.
//  Status    – availability status (free, booked, blocked).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type TimeSlot struct {
    ID        uint64    `json:"id"`         // time_slots.id
    AdvisorID uint64    `json:"advisor_id"` // time_slots.advisor_id
    StartUTC  time.Time `json:"start_utc"`  // time_slots.start_utc
    EndUTC    time.Time `json:"end_utc"`    // time_slots.end_utc
    Status    string    `json:"status"`     // time_slots.status
    CreatedAt time.Time `json:"-"`          // time_slots.created_at
    UpdatedAt time.Time `json:"-"`          // time_slots.updated_at
}
