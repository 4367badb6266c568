// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking engines and handlers to distinguish between different failure
// scenarios. For example, ErrSlotUnavailable signals that a booking
// attempt lost the race for a slot, while ErrInvalidTransition marks a
// no-op status change that the admin panel should reject.
package repository

import "errors"

// ErrSlotNotFound is returned when a referenced time slot does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotUnavailable is returned when a booking attempt finds the slot
// in any status other than free. Exactly one of any set of concurrent
// attempts on a free slot succeeds; all others receive this error.
// Handlers should translate it into an HTTP 409 response.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrSlotConflict is returned when re-confirming or completing a
// booking would collide with another confirmed/completed booking that
// currently holds the same slot. Handlers should translate this into
// an HTTP 409 response.
var ErrSlotConflict = errors.New("slot occupied by another active booking")

// ErrBookingNotFound is returned when a referenced booking does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvalidTransition is returned when a status update names the
// booking's current status. Same-status transitions are rejected
// rather than treated as no-ops.
var ErrInvalidTransition = errors.New("booking already has that status")

// ErrAdvisorNotFound is returned when a referenced advisor does not
// exist.
var ErrAdvisorNotFound = errors.New("advisor not found")

// ErrAdminExists is returned when registering an admin with an email
// that is already taken.
var ErrAdminExists = errors.New("admin email already registered")

// ErrInvalidCredentials is returned on a failed admin login. The same
// error covers unknown email and wrong password so responses do not
// reveal which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")
