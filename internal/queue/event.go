// Package queue defines message payloads exchanged over the message broker.
package queue

// MailQueueName is the durable queue carrying outbound email jobs.
const MailQueueName = "mail.dispatch"

// MailDispatch is published for every email the engines decide to
// send: booking confirmations, resends and both reminder types.  It
// carries enough information for the mail worker to render and log
// the message without querying the primary database.  Timestamps are
// RFC3339 strings in UTC.
type MailDispatch struct {
    BookingID   uint64 `json:"booking_id"`
    Type        string `json:"type"`
    Recipient   string `json:"recipient"`
    ClientName  string `json:"client_name"`
    AdvisorName string `json:"advisor_name"`
    Timezone    string `json:"timezone"`
    StartUTC    string `json:"start_utc"`
    EndUTC      string `json:"end_utc"`
    Subject     string `json:"subject"`
    QueuedAt    string `json:"queued_at"`
}
