package model

import "time"

// Email types and statuses for the `email_logs` audit trail.  The
// trail is append-only: a resend adds a new row instead of mutating
// the old one, and "has this reminder already been sent" is answered
// by the existence of a `sent` row for the (booking, type) pair.
const (
    EmailConfirmation = "confirmation"
    EmailReminder24h  = "reminder_24h"
    EmailReminder1h   = "reminder_1h"

    EmailPending = "pending"
    EmailSent    = "sent"
    EmailFailed  = "failed"
)

// ValidEmailType reports whether t names one of the three known
// notification types.
func ValidEmailType(t string) bool {
    switch t {
    case EmailConfirmation, EmailReminder24h, EmailReminder1h:
        return true
    }
    return false
}

// EmailLog is one row of the `email_logs` table.  SentAt and
// ErrorMessage are nullable: SentAt is set only on `sent` rows and
// ErrorMessage only on `failed` rows.
//
// Fields:
//  ID           – primary key identifier.
//  BookingID    – booking this notification belongs to.
//  Type         – notification type (confirmation, reminder_24h, reminder_1h).
//  Status       – delivery status (pending, sent, failed).
//  Attempts     – number of dispatch attempts recorded on this row.
//  SentAt       – when the notification was delivered (nullable).
//  ErrorMessage – dispatch error detail (nullable).
//  CreatedAt    – creation timestamp.
type EmailLog struct {
    ID           uint64     // email_logs.id
    BookingID    uint64     // email_logs.booking_id
    Type         string     // email_logs.type
    Status       string     // email_logs.status
    Attempts     uint32     // email_logs.attempts
    SentAt       *time.Time // email_logs.sent_at (nullable)
    ErrorMessage *string    // email_logs.error_message (nullable)
    CreatedAt    time.Time  // email_logs.created_at
}
