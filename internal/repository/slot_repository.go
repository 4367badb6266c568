package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// SlotRepo provides data access to the time_slots table.  Slot status
// is mutated only inside transactions owned by the Gateway; the
// read-only queries here serve the availability endpoints.  All
// timestamp fields are stored and compared in UTC.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// GetForUpdateTx loads a slot's status and advisor within the provided
// transaction while holding an exclusive row lock (SELECT ... FOR
// UPDATE).  The lock guarantees that of any set of concurrent booking
// attempts exactly one observes the slot as free; the rest block here
// and then see the updated status.  Returns ErrSlotNotFound when no
// such slot exists.  The caller must commit or roll back the
// transaction to release the lock.
func (r *SlotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, slotID uint64) (*model.TimeSlot, error) {
    const q = `SELECT id, advisor_id, start_utc, end_utc, status
               FROM time_slots
               WHERE id = ?
               FOR UPDATE`
    var s model.TimeSlot
    err := tx.QueryRowContext(ctx, q, slotID).Scan(&s.ID, &s.AdvisorID, &s.StartUTC, &s.EndUTC, &s.Status)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSlotNotFound
        }
        return nil, err
    }
    return &s, nil
}

// UpdateStatusTx sets a slot's status within the provided transaction.
// Valid statuses are free, booked and blocked; the caller is expected
// to have decided the transition under the row lock taken by
// GetForUpdateTx.
func (r *SlotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, slotID uint64, status string) error {
    const q = `UPDATE time_slots SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, status, slotID)
    return err
}

// ListFreeByAdvisor returns the free slots of an advisor whose whole
// interval falls inside [from, to], ordered by start time.  It backs
// the public availability endpoint.  Returns ErrAdvisorNotFound when
// the advisor does not exist so callers can distinguish "unknown
// advisor" from "no availability".
func (r *SlotRepo) ListFreeByAdvisor(ctx context.Context, advisorID uint64, from, to time.Time) ([]model.TimeSlot, error) {
    var exists bool
    if err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM advisors WHERE id = ?)`, advisorID,
    ).Scan(&exists); err != nil {
        return nil, err
    }
    if !exists {
        return nil, ErrAdvisorNotFound
    }
    const q = `SELECT id, advisor_id, start_utc, end_utc, status
               FROM time_slots
               WHERE advisor_id = ?
                 AND start_utc >= ?
                 AND end_utc <= ?
                 AND status = 'free'
               ORDER BY start_utc`
    rows, err := r.db.QueryContext(ctx, q, advisorID, from.UTC(), to.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    slots := make([]model.TimeSlot, 0)
    for rows.Next() {
        var s model.TimeSlot
        if err := rows.Scan(&s.ID, &s.AdvisorID, &s.StartUTC, &s.EndUTC, &s.Status); err != nil {
            return nil, err
        }
        slots = append(slots, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return slots, nil
}

// CreateBulk inserts multiple time_slot records in one statement.  It
// is used by the seed command to pre-generate advisor schedules.
// Duplicate (advisor, start, end) tuples are skipped via INSERT IGNORE
// so reseeding is harmless.  Passing an empty slice has no effect.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.TimeSlot) error {
    if len(slots) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO time_slots (advisor_id, start_utc, end_utc, status) VALUES `
    args := make([]interface{}, 0, len(slots)*4)
    for i, s := range slots {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        status := s.Status
        if status == "" {
            status = model.SlotFree
        }
        args = append(args, s.AdvisorID, s.StartUTC.UTC(), s.EndUTC.UTC(), status)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}
