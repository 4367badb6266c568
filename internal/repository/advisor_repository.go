package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// AdvisorRepo provides read access to the advisors table.  Advisors
// are seeded out of band and treated as immutable once slots reference
// them, so there are no update methods.
type AdvisorRepo struct {
    db *sql.DB
}

// NewAdvisorRepo returns a new AdvisorRepo bound to the given database.
func NewAdvisorRepo(db *sql.DB) *AdvisorRepo { return &AdvisorRepo{db: db} }

// List returns all advisors ordered by ID.
func (r *AdvisorRepo) List(ctx context.Context) ([]model.Advisor, error) {
    const q = `SELECT id, name, timezone, created_at, updated_at FROM advisors ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    advisors := make([]model.Advisor, 0)
    for rows.Next() {
        var a model.Advisor
        if err := rows.Scan(&a.ID, &a.Name, &a.Timezone, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        advisors = append(advisors, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return advisors, nil
}

// GetByID returns a single advisor.  Returns ErrAdvisorNotFound when
// no such advisor exists.
func (r *AdvisorRepo) GetByID(ctx context.Context, id uint64) (*model.Advisor, error) {
    const q = `SELECT id, name, timezone, created_at, updated_at FROM advisors WHERE id = ?`
    var a model.Advisor
    err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Timezone, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrAdvisorNotFound
        }
        return nil, err
    }
    return &a, nil
}

// Create inserts an advisor and populates the generated ID.  Used by
// the seed command.
func (r *AdvisorRepo) Create(ctx context.Context, a *model.Advisor) error {
    const q = `INSERT INTO advisors (name, timezone) VALUES (?, ?)`
    result, err := r.db.ExecContext(ctx, q, a.Name, a.Timezone)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}
