package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking
// references exactly one slot; the advisor is denormalized onto the
// booking row.  Status changes and the insert that claims a slot run
// inside Gateway transactions via the ...Tx methods.  All timestamp
// fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with its slot interval and advisor,
// as returned to clients and to the admin panel.  The timezone is the
// advisor's IANA zone, carried along so notifications can render local
// times.
type BookingDetail struct {
    ID              uint64    `json:"id"`
    SlotID          uint64    `json:"slot_id"`
    ClientName      string    `json:"client_name"`
    ClientEmail     string    `json:"client_email"`
    AdvisorName     string    `json:"advisor_name"`
    AdvisorTimezone string    `json:"advisor_timezone"`
    StartUTC        time.Time `json:"start_utc"`
    EndUTC          time.Time `json:"end_utc"`
    Status          string    `json:"status"`
    CreatedAt       time.Time `json:"created_at"`
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  The caller must have already locked the target
// slot and verified it is free; this method performs no availability
// check of its own.  The caller commits or rolls back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (slot_id, advisor_id, client_name, client_email, status)
               VALUES (?, ?, ?, ?, ?)`
    status := b.Status
    if status == "" {
        status = model.BookingConfirmed
    }
    result, err := tx.ExecContext(ctx, q, b.SlotID, b.AdvisorID, b.ClientName, b.ClientEmail, status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    const sel = `SELECT id, slot_id, advisor_id, client_name, client_email, status, created_at, updated_at
                 FROM bookings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, b.ID).Scan(
        &b.ID, &b.SlotID, &b.AdvisorID, &b.ClientName, &b.ClientEmail,
        &b.Status, &b.CreatedAt, &b.UpdatedAt,
    )
}

// GetForUpdateTx loads a booking within the provided transaction while
// holding an exclusive row lock.  The status-transition engine locks
// the booking before the slot so concurrent transitions on the same
// booking serialize here.  Returns ErrBookingNotFound when no such
// booking exists.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Booking, error) {
    const q = `SELECT id, slot_id, advisor_id, client_name, client_email, status, created_at, updated_at
               FROM bookings
               WHERE id = ?
               FOR UPDATE`
    var b model.Booking
    err := tx.QueryRowContext(ctx, q, bookingID).Scan(
        &b.ID, &b.SlotID, &b.AdvisorID, &b.ClientName, &b.ClientEmail,
        &b.Status, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// OtherActiveOnSlotTx reports whether any booking other than
// excludeID currently holds the given slot with a confirmed or
// completed status.  The status-transition engine uses it to stop a
// cancelled booking from being resurrected after its slot was re-let.
func (r *BookingRepo) OtherActiveOnSlotTx(ctx context.Context, tx *sql.Tx, slotID, excludeID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings
                   WHERE slot_id = ? AND id != ? AND status IN ('confirmed', 'completed')
               )`
    var exists bool
    if err := tx.QueryRowContext(ctx, q, slotID, excludeID).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// UpdateStatusTx sets a booking's status within the provided
// transaction.  The engine has already validated the transition.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
    const q = `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, bookingID)
    return err
}

const bookingDetailSelect = `SELECT b.id, b.slot_id, b.client_name, b.client_email,
                                    a.name, a.timezone,
                                    ts.start_utc, ts.end_utc,
                                    b.status, b.created_at
                             FROM bookings b
                             JOIN time_slots ts ON ts.id = b.slot_id
                             JOIN advisors a ON a.id = b.advisor_id`

func scanBookingDetail(row interface{ Scan(...interface{}) error }) (BookingDetail, error) {
    var d BookingDetail
    err := row.Scan(
        &d.ID, &d.SlotID, &d.ClientName, &d.ClientEmail,
        &d.AdvisorName, &d.AdvisorTimezone,
        &d.StartUTC, &d.EndUTC,
        &d.Status, &d.CreatedAt,
    )
    return d, err
}

// GetDetailTx returns a single booking joined with its slot and
// advisor, within the provided transaction.  The booking engine uses
// it right after CreateTx so the confirmation email can be built
// without a second round trip after commit.  Returns
// ErrBookingNotFound when no such booking exists.
func (r *BookingRepo) GetDetailTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*BookingDetail, error) {
    d, err := scanBookingDetail(tx.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, bookingID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &d, nil
}

// GetDetail is the non-transactional variant of GetDetailTx, used by
// the resend-confirmation path.
func (r *BookingRepo) GetDetail(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
    d, err := scanBookingDetail(r.db.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, bookingID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &d, nil
}

// ListByClientEmail returns all bookings for the given client email,
// ordered by slot start time ascending.  The email is matched against
// the normalized (lower-cased, trimmed) column value.  When no
// bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByClientEmail(ctx context.Context, email string) ([]BookingDetail, error) {
    q := bookingDetailSelect + ` WHERE b.client_email = ? ORDER BY ts.start_utc ASC`
    rows, err := r.db.QueryContext(ctx, q, strings.ToLower(strings.TrimSpace(email)))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanBookingDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// AdminBookingFilter narrows the admin booking listing.  Zero values
// mean "no filter".  FromDate/ToDate compare against the calendar
// date of the slot start, inclusive on both ends.
type AdminBookingFilter struct {
    AdvisorID uint64
    Status    string
    FromDate  *time.Time
    ToDate    *time.Time
}

// buildAdminListQuery assembles the WHERE clause for ListForAdmin.
// Split out so the filter composition is testable without a database.
func buildAdminListQuery(f AdminBookingFilter) (string, []interface{}) {
    var (
        conds []string
        args  []interface{}
    )
    if f.AdvisorID != 0 {
        conds = append(conds, "b.advisor_id = ?")
        args = append(args, f.AdvisorID)
    }
    if f.Status != "" {
        conds = append(conds, "b.status = ?")
        args = append(args, f.Status)
    }
    if f.FromDate != nil {
        conds = append(conds, "DATE(ts.start_utc) >= DATE(?)")
        args = append(args, f.FromDate.UTC())
    }
    if f.ToDate != nil {
        conds = append(conds, "DATE(ts.start_utc) <= DATE(?)")
        args = append(args, f.ToDate.UTC())
    }
    q := bookingDetailSelect
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY ts.start_utc ASC"
    return q, args
}

// ListForAdmin returns bookings matching the filter, ordered by slot
// start time ascending.  All filter fields are optional.
func (r *BookingRepo) ListForAdmin(ctx context.Context, f AdminBookingFilter) ([]BookingDetail, error) {
    q, args := buildAdminListQuery(f)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanBookingDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// FindDueReminders returns confirmed bookings whose slot starts inside
// [from, to] and that have no `sent` email log of the given reminder
// type.  The NOT EXISTS gate is what makes reminder dispatch
// idempotent across overlapping scan cycles and restarts.  Results are
// full booking details so the reminder can be rendered directly.
func (r *BookingRepo) FindDueReminders(ctx context.Context, from, to time.Time, reminderType string) ([]BookingDetail, error) {
    q := bookingDetailSelect + `
        WHERE b.status = 'confirmed'
          AND ts.start_utc BETWEEN ? AND ?
          AND NOT EXISTS (
              SELECT 1 FROM email_logs el
              WHERE el.booking_id = b.id
                AND el.type = ?
                AND el.status = 'sent'
          )
        ORDER BY ts.start_utc ASC`
    rows, err := r.db.QueryContext(ctx, q, from.UTC(), to.UTC(), reminderType)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    due := make([]BookingDetail, 0)
    for rows.Next() {
        d, err := scanBookingDetail(rows)
        if err != nil {
            return nil, err
        }
        due = append(due, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return due, nil
}
