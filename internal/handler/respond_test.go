package handler

import (
    "errors"
    "fmt"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/advisor-booking/internal/repository"
    "github.com/iliyamo/advisor-booking/internal/service"
)

func TestClassify(t *testing.T) {
    cases := []struct {
        err    error
        status int
        code   string
    }{
        {service.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
        {fmt.Errorf("%w: slot_id must be a positive integer", service.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
        {repository.ErrSlotNotFound, http.StatusNotFound, "NOT_FOUND"},
        {repository.ErrBookingNotFound, http.StatusNotFound, "NOT_FOUND"},
        {repository.ErrAdvisorNotFound, http.StatusNotFound, "NOT_FOUND"},
        {repository.ErrSlotUnavailable, http.StatusConflict, "SLOT_UNAVAILABLE"},
        {repository.ErrSlotConflict, http.StatusConflict, "SLOT_CONFLICT"},
        {repository.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
        {repository.ErrAdminExists, http.StatusConflict, "ADMIN_EXISTS"},
        {repository.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
        {errors.New("driver: bad connection"), http.StatusInternalServerError, "INTERNAL_ERROR"},
    }
    for _, tc := range cases {
        status, code := classify(tc.err)
        assert.Equal(t, tc.status, status, tc.err.Error())
        assert.Equal(t, tc.code, code, tc.err.Error())
    }
}
