package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrTxConflict is returned when a financial transaction could not commit
// after the bounded retry budget. Safe for the caller to retry.
var ErrTxConflict = errors.New("transaction conflict, please retry")

const txRetryAttempts = 3

// RunInTxWithRetry runs fn inside a database transaction, retrying a bounded
// number of times when the commit fails due to contention. Any other error
// rolls back and is returned as-is.
func RunInTxWithRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= txRetryAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		LogDebug("Transaction conflict on attempt %d: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	LogError("Transaction failed after %d attempts: %v", txRetryAttempts, err)
	return fmt.Errorf("%w: %v", ErrTxConflict, err)
}

// isRetryableTxError reports whether the error is a serialization or lock
// contention failure rather than a business failure
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || // serialization failure
		strings.Contains(msg, "SQLSTATE 40P01") || // deadlock detected
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
