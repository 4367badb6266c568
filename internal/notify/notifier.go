// Package notify defines the notification capability consumed by the
// booking and reminder engines.  The engines only decide that an email
// is due and what it says; how it leaves the process is behind the
// Notifier interface so transports can be swapped (broker, console,
// test fake).
package notify

import (
    "context"
    "log"
    "time"
)

// Message is one outbound email.  StartUTC/EndUTC are the appointment
// interval and Timezone the advisor's IANA zone, carried so the
// consumer on the other side of the transport can render local times
// without querying the database.
type Message struct {
    BookingID   uint64    `json:"booking_id"`
    Type        string    `json:"type"`
    Recipient   string    `json:"recipient"`
    ClientName  string    `json:"client_name"`
    AdvisorName string    `json:"advisor_name"`
    Timezone    string    `json:"timezone"`
    StartUTC    time.Time `json:"start_utc"`
    EndUTC      time.Time `json:"end_utc"`
    Subject     string    `json:"subject"`
}

// Notifier dispatches a single message.  A nil error means the message
// was handed to the transport; delivery beyond that point is the
// transport's concern.  Implementations must be safe for concurrent
// use, since confirmations are dispatched from request goroutines
// while the reminder scheduler runs its own.
type Notifier interface {
    Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the process log instead of a real
// transport.  Used in development and as a fallback when no broker is
// configured.
type LogNotifier struct{}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

// Send logs the message and always succeeds.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
    log.Printf("notify: type=%s booking=%d to=%s subject=%q", msg.Type, msg.BookingID, msg.Recipient, msg.Subject)
    return nil
}
