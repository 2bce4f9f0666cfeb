// Package apperr holds the error kinds shared by every service. Callers wrap
// them with fmt.Errorf("...: %w", apperr.ErrX) and test with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNetwork        = errors.New("network error")
	ErrIntegrity      = errors.New("integrity error")
	ErrStaleResponse  = errors.New("stale response")
	ErrNotFound       = errors.New("not found")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Integrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// Network marks err as a transport or storage failure while keeping it in the chain.
func Network(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}

func Authentication(err error) error {
	if err == nil {
		return ErrAuthentication
	}
	return fmt.Errorf("%w: %w", ErrAuthentication, err)
}

// HTTPStatus maps an error kind to the response code used by the HTTP handlers.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
