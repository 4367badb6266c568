package model

import "time"

// Admin represents a back-office user in the `admins` table.  Admins
// authenticate with email + bcrypt-hashed password and receive a JWT
// for the management endpoints.  Emails are stored lower-cased and
// are unique.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique lower-cased email address.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Admin struct {
    ID           uint64    // admins.id
    Email        string    // admins.email
    PasswordHash string    // admins.password_hash
    CreatedAt    time.Time // admins.created_at
    UpdatedAt    time.Time // admins.updated_at
}
