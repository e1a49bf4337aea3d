package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Map converts repo/domain errors into an HTTP status + safe message.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""

	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ErrProfilesIncomplete):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "request was canceled"

	default:
		// fallback → bubble up error message for debugging
		return http.StatusInternalServerError, err.Error()
	}
}
