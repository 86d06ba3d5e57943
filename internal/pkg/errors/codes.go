package errors

import "net/http"

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidQuery       = "INVALID_QUERY"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

var (
	ErrValidation = New(
		CodeValidation,
		"Invalid input data",
		http.StatusBadRequest,
	)

	ErrMissingCoordinates = New(
		CodeValidation,
		"GPS coordinates are required",
		http.StatusBadRequest,
	)

	ErrInvalidQuery = New(
		CodeInvalidQuery,
		"Invalid proximity query",
		http.StatusBadRequest,
	)

	ErrInvalidCredentials = New(
		CodeInvalidCredentials,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Token invalid or expired",
		http.StatusUnauthorized,
	)

	ErrRateLimited = New(
		CodeRateLimited,
		"Too many failed login attempts. Try again later.",
		http.StatusTooManyRequests,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrConflict = New(
		CodeConflict,
		"Resource conflict",
		http.StatusConflict,
	)

	ErrStoreUnavailable = New(
		CodeStoreUnavailable,
		"Backing store unavailable",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		CodeInternal,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
