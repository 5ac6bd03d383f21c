package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Error codes used across the support-bot services. Handlers and services
// attach these to AppError values so callers can react without string
// matching on messages.
const (
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeStoreError      = "STORE_ERROR"
	CodeIntentNotFound  = "INTENT_NOT_FOUND"
	CodeFaqNotFound     = "FAQ_NOT_FOUND"
	CodeTicketNotFound  = "TICKET_NOT_FOUND"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Stack:      string(debug.Stack()),
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewUnauthorizedError creates a 401 Unauthorized error
func NewUnauthorizedError(code string, message string) *AppError {
	return NewError(http.StatusUnauthorized, code, message)
}

// NewForbiddenError creates a 403 Forbidden error
func NewForbiddenError(code string, message string) *AppError {
	return NewError(http.StatusForbidden, code, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code string, message string) *AppError {
	return NewError(http.StatusNotFound, code, message)
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(code string, message string) *AppError {
	return NewError(http.StatusConflict, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// NewSessionNotFound reports that a chat session id has no matching record
func NewSessionNotFound(sessionID string) *AppError {
	return NewNotFoundError(CodeSessionNotFound, fmt.Sprintf("session %q not found", sessionID))
}

// NewStoreError wraps a persistence failure. The underlying error is carried
// in Details so transport layers can log it without exposing it to clients.
func NewStoreError(op string, err error) *AppError {
	appErr := NewError(http.StatusServiceUnavailable, CodeStoreError, fmt.Sprintf("store operation %s failed", op))
	appErr.Details = err.Error()
	return appErr
}

// IsCode reports whether err is an AppError carrying the given code
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
