package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// EmailLogRepo provides access to the append-only email_logs table.
// Rows are never updated; every dispatch attempt and every resend adds
// a new row, and the newest rows are listed first in the admin view.
type EmailLogRepo struct {
    db *sql.DB
}

// NewEmailLogRepo returns a new EmailLogRepo bound to the given database.
func NewEmailLogRepo(db *sql.DB) *EmailLogRepo { return &EmailLogRepo{db: db} }

// InsertTx appends an email log row within the provided transaction.
// The booking engine uses it to record the pending confirmation row in
// the same transaction that claims the slot, so a committed booking
// always carries its audit trail entry.
func (r *EmailLogRepo) InsertTx(ctx context.Context, tx *sql.Tx, bookingID uint64, emailType, status string) error {
    const q = `INSERT INTO email_logs (booking_id, type, status) VALUES (?, ?, ?)`
    _, err := tx.ExecContext(ctx, q, bookingID, emailType, status)
    return err
}

// InsertPending appends a pending row outside any transaction.  Used
// by the resend-confirmation path, mirroring the row InsertTx writes
// at booking time.
func (r *EmailLogRepo) InsertPending(ctx context.Context, bookingID uint64, emailType string) error {
    const q = `INSERT INTO email_logs (booking_id, type, status) VALUES (?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, bookingID, emailType, model.EmailPending)
    return err
}

// RecordResult appends the outcome of a dispatch attempt.  A sent row
// gets sent_at = now; a failed row carries the error message.  The
// attempts counter is always 1 on these rows since each attempt is its
// own row.
func (r *EmailLogRepo) RecordResult(ctx context.Context, bookingID uint64, emailType, status, errMsg string, sentAt time.Time) error {
    const q = `INSERT INTO email_logs (booking_id, type, status, attempts, sent_at, error_message)
               VALUES (?, ?, ?, 1, ?, ?)`
    var at interface{}
    if status == model.EmailSent {
        at = sentAt.UTC()
    }
    var msg interface{}
    if errMsg != "" {
        msg = errMsg
    }
    _, err := r.db.ExecContext(ctx, q, bookingID, emailType, status, at, msg)
    return err
}

// EmailLogDetail is an email log row joined with booking and advisor
// context for the admin listing.
type EmailLogDetail struct {
    ID           uint64     `json:"id"`
    BookingID    uint64     `json:"booking_id"`
    Type         string     `json:"type"`
    Status       string     `json:"status"`
    Attempts     uint32     `json:"attempts"`
    SentAt       *time.Time `json:"sent_at"`
    ErrorMessage *string    `json:"error_message"`
    CreatedAt    time.Time  `json:"created_at"`
    ClientName   string     `json:"client_name"`
    ClientEmail  string     `json:"client_email"`
    AdvisorName  string     `json:"advisor_name"`
}

// List returns email log rows, newest first, optionally filtered by
// type and status, capped at 100 rows.
func (r *EmailLogRepo) List(ctx context.Context, emailType, status string) ([]EmailLogDetail, error) {
    q := `SELECT el.id, el.booking_id, el.type, el.status, el.attempts,
                 el.sent_at, el.error_message, el.created_at,
                 b.client_name, b.client_email, a.name
          FROM email_logs el
          JOIN bookings b ON b.id = el.booking_id
          JOIN advisors a ON a.id = b.advisor_id`
    var (
        conds []string
        args  []interface{}
    )
    if emailType != "" {
        conds = append(conds, "el.type = ?")
        args = append(args, emailType)
    }
    if status != "" {
        conds = append(conds, "el.status = ?")
        args = append(args, status)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY el.created_at DESC LIMIT 100"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    logs := make([]EmailLogDetail, 0)
    for rows.Next() {
        var (
            d      EmailLogDetail
            sentAt sql.NullTime
            msg    sql.NullString
        )
        if err := rows.Scan(
            &d.ID, &d.BookingID, &d.Type, &d.Status, &d.Attempts,
            &sentAt, &msg, &d.CreatedAt,
            &d.ClientName, &d.ClientEmail, &d.AdvisorName,
        ); err != nil {
            return nil, err
        }
        if sentAt.Valid {
            t := sentAt.Time
            d.SentAt = &t
        }
        if msg.Valid {
            m := msg.String
            d.ErrorMessage = &m
        }
        logs = append(logs, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return logs, nil
}
