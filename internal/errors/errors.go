// Package errors provides custom error types for the budget API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Scenario errors.
var (
	ErrScenarioNotFound = &AppError{Code: "SCENARIO_NOT_FOUND", Message: "Scenario not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found in scenario", StatusCode: http.StatusNotFound}
)

// Period and snapshot errors.
var (
	ErrInvalidPeriod          = &AppError{Code: "INVALID_PERIOD", Message: "Invalid period", StatusCode: http.StatusBadRequest}
	ErrSnapshotNotFound       = &AppError{Code: "SNAPSHOT_NOT_FOUND", Message: "No snapshot saved for this period", StatusCode: http.StatusNotFound}
	ErrSnapshotExists         = &AppError{Code: "SNAPSHOT_EXISTS", Message: "A snapshot already exists for this period", StatusCode: http.StatusConflict}
	ErrPeriodSwitchInProgress = &AppError{Code: "PERIOD_SWITCH_IN_PROGRESS", Message: "A period switch is in progress", StatusCode: http.StatusConflict}
)

// Persistence errors.
var (
	ErrPersistenceFailed = &AppError{Code: "PERSISTENCE_FAILED", Message: "Could not read or write budget data", StatusCode: http.StatusInternalServerError}
	ErrPreferencesFailed = &AppError{Code: "PREFERENCES_FAILED", Message: "Could not save preferences", StatusCode: http.StatusInternalServerError}
)
