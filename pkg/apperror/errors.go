package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Ledger / redemption domain failures. Every kind maps to a distinct
	// user-visible message and HTTP status.
	ErrInvalidState        = errors.New("operation not valid for current status")
	ErrInsufficientBalance = errors.New("insufficient points balance")
	ErrInsufficientStock   = errors.New("insufficient product stock")
	ErrAlreadyRedeemed     = errors.New("gift code already redeemed by this account")
	ErrAlreadyCheckedIn    = errors.New("already checked in today")
	ErrCodeExpired         = errors.New("gift code has expired")
	ErrCodeInactive        = errors.New("gift code is inactive")
	ErrDuplicateCode       = errors.New("gift code already exists")
	ErrConflict            = errors.New("operation conflicted with a concurrent update, retry")
	ErrStoreUnavailable    = errors.New("data store unavailable")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyRedeemed) ||
		errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrDuplicateCode) ||
		errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrCodeInactive) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
