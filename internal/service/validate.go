package service

import (
    "errors"
    "fmt"
    "regexp"
    "strings"
)

// ErrInvalidInput marks client errors raised before any transaction
// opens.  Callers match it with errors.Is; the wrapped message names
// the offending field.
var ErrInvalidInput = errors.New("invalid input")

// emailPattern is the email grammar accepted for client addresses.
// Deliberately simple: one local part, one domain with a dot and a
// two-plus letter TLD.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// NormalizeEmail lower-cases and trims an email address.  Applied
// before validation and before any persistence so lookups by email
// are canonical.
func NormalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether a normalized email matches the accepted
// grammar.
func ValidEmail(email string) bool {
    return emailPattern.MatchString(email)
}

// validateBookingInput checks the CreateBooking arguments and returns
// the normalized name and email.  slotID must be positive, the name
// 2-255 characters after trimming, and the email must match
// emailPattern after normalization.
func validateBookingInput(slotID uint64, clientName, clientEmail string) (name, email string, err error) {
    if slotID == 0 {
        return "", "", fmt.Errorf("%w: slot_id must be a positive integer", ErrInvalidInput)
    }
    name = strings.TrimSpace(clientName)
    if len(name) < 2 || len(name) > 255 {
        return "", "", fmt.Errorf("%w: client_name must be between 2 and 255 characters", ErrInvalidInput)
    }
    email = NormalizeEmail(clientEmail)
    if !emailPattern.MatchString(email) {
        return "", "", fmt.Errorf("%w: client_email is not a valid email address", ErrInvalidInput)
    }
    return name, email, nil
}
