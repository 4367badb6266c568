package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/advisor-booking/internal/model"
)

// AdminRepo provides access to the admins table for the back-office
// login and registration endpoints.  Emails are normalized to
// lower-case before any read or write so lookups are case-insensitive.
type AdminRepo struct {
    db *sql.DB
}

// NewAdminRepo returns a new AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// GetByEmail returns the admin with the given email.  Returns
// ErrInvalidCredentials when no such admin exists so login responses
// do not reveal whether the email is registered.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
    const q = `SELECT id, email, password_hash, created_at, updated_at FROM admins WHERE email = ?`
    var a model.Admin
    err := r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(email))).Scan(
        &a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrInvalidCredentials
        }
        return nil, err
    }
    return &a, nil
}

// Create inserts a new admin and populates the generated ID.  Returns
// ErrAdminExists when the unique email constraint rejects the insert.
func (r *AdminRepo) Create(ctx context.Context, email, passwordHash string) (uint64, error) {
    const q = `INSERT INTO admins (email, password_hash) VALUES (?, ?)`
    result, err := r.db.ExecContext(ctx, q, strings.ToLower(strings.TrimSpace(email)), passwordHash)
    if err != nil {
        var mysqlErr *mysql.MySQLError
        if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 { // duplicate key
            return 0, ErrAdminExists
        }
        return 0, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}
