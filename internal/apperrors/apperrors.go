package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors for business-rule violations. Services wrap these with
// fmt.Errorf("...: %w", ...) and handlers map them to HTTP status codes.
// Anything that does not match is treated as an infrastructure failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrConflict        = errors.New("conflict")
)

// HTTPStatus maps an error to the status code of its taxonomy class.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsBusiness reports whether err belongs to the business-rule taxonomy.
// Infrastructure errors are everything else and must not leak detail.
func IsBusiness(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
