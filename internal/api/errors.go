package api

import (
	"errors"
	"net/http"

	"github.com/sharebite/sharebite-api/internal/api/shared"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/service/auth"
	"github.com/sharebite/sharebite-api/internal/store"
)

// Client-facing messages, re-exported for handlers and tests.
const (
	MessageUnauthorized = shared.MessageUnauthorized
	MessageForbidden    = shared.MessageForbidden
	MessageInternal     = shared.MessageInternal
	MessageMalformedID  = "Malformed identifier"
	MessageInvalidBody  = "Invalid request body"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case auth.IsAuthError(err):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrMalformedID),
		errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrInvalidBody):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Deadline exceeded and everything else from the store ends up here
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Only field-level validation detail is echoed.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MessageInternal
	}

	switch {
	case auth.IsAuthError(err):
		return MessageUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return MessageForbidden

	case errors.Is(err, store.ErrMalformedID):
		return MessageMalformedID

	case errors.Is(err, domain.ErrEmptyUpdate):
		return "Update must contain at least one field"

	case errors.Is(err, domain.ErrInvalidRecord):
		var fieldErr *domain.FieldError
		if errors.As(err, &fieldErr) {
			return "Invalid " + fieldErr.Field + ": " + fieldErr.Message
		}
		return "Invalid food record"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid food record"

	case errors.Is(err, shared.ErrInvalidBody):
		return MessageInvalidBody

	case errors.Is(err, store.ErrNotFound):
		return "Food not found"

	default:
		return MessageInternal
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
