package model

import "time"

// Advisor represents a bookable advisor as stored in the `advisors`
// table.  Advisors own a set of pre-generated time slots and are
// immutable once slots reference them.  The timezone is an IANA
// identifier (e.g. "Europe/Madrid") used only for rendering
// appointment times in notifications; all stored instants are UTC.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown to clients.
//  Timezone  – IANA timezone of the advisor.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Advisor struct {
    ID        uint64    `json:"id"`         // advisors.id
    Name      string    `json:"name"`       // advisors.name
    Timezone  string    `json:"timezone"`   // advisors.timezone
    CreatedAt time.Time `json:"created_at"` // advisors.created_at
    UpdatedAt time.Time `json:"updated_at"` // advisors.updated_at
}
