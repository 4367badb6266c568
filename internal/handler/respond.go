package handler // declare the package name; contains HTTP handlers

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/advisor-booking/internal/repository"
    "github.com/iliyamo/advisor-booking/internal/service"
)

// envelope is the uniform response body.  Success responses carry data and
// an optional message; failures carry a human-readable error and a stable
// machine code clients can switch on.
type envelope struct {
    Success bool        `json:"success"`
    Message string      `json:"message,omitempty"`
    Data    interface{} `json:"data,omitempty"`
    Error   string      `json:"error,omitempty"`
    Code    string      `json:"code,omitempty"`
}

// respondOK writes a 200 with the given payload.
func respondOK(c echo.Context, message string, data interface{}) error {
    return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondCreated writes a 201 with the given payload.
func respondCreated(c echo.Context, message string, data interface{}) error {
    return c.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// respondError maps a domain error onto an HTTP status and stable code.
// Unknown errors become a generic 500 so internal details never leak to
// the client.
func respondError(c echo.Context, err error) error {
    status, code := classify(err)
    msg := err.Error()
    if status == http.StatusInternalServerError {
        msg = "internal server error"
        c.Logger().Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
    }
    return c.JSON(status, envelope{Success: false, Error: msg, Code: code})
}

// respondInvalid reports a request validation failure with a 400.
func respondInvalid(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, envelope{Success: false, Error: msg, Code: "VALIDATION_ERROR"})
}

func classify(err error) (int, string) {
    switch {
    case errors.Is(err, service.ErrInvalidInput):
        return http.StatusBadRequest, "VALIDATION_ERROR"
    case errors.Is(err, repository.ErrSlotNotFound),
        errors.Is(err, repository.ErrBookingNotFound),
        errors.Is(err, repository.ErrAdvisorNotFound):
        return http.StatusNotFound, "NOT_FOUND"
    case errors.Is(err, repository.ErrSlotUnavailable):
        return http.StatusConflict, "SLOT_UNAVAILABLE"
    case errors.Is(err, repository.ErrSlotConflict):
        return http.StatusConflict, "SLOT_CONFLICT"
    case errors.Is(err, repository.ErrInvalidTransition):
        return http.StatusConflict, "INVALID_TRANSITION"
    case errors.Is(err, repository.ErrAdminExists):
        return http.StatusConflict, "ADMIN_EXISTS"
    case errors.Is(err, repository.ErrInvalidCredentials):
        return http.StatusUnauthorized, "INVALID_CREDENTIALS"
    }
    return http.StatusInternalServerError, "INTERNAL_ERROR"
}
