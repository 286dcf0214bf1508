package errors

import (
	stderrors "errors"
	"net/http"
)

// MapToHTTPStatus translates domain sentinels into HTTP status codes for the
// REST surface. Unknown errors are deliberately reported as 500 without
// detail so internal failures never leak to clients.
func MapToHTTPStatus(err error) int {
	switch {
	case stderrors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-safe text for an error. Sentinel messages
// are written for end users; anything else collapses to a generic message.
func PublicMessage(err error) string {
	for _, sentinel := range []error{
		ErrUserAlreadyExists,
		ErrInvalidCredentials,
		ErrInvalidPassword,
	} {
		if stderrors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}
