package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/vytor/neuroprofile/internal/analysis"
)

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnprocessable = "UNPROCESSABLE"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeTooLarge      = "PAYLOAD_TOO_LARGE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUnprocessableError is for well-formed sessions whose data cannot be scored.
func NewUnprocessableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnprocessable,
		Message: err.Error(),
		Status:  http.StatusUnprocessableEntity,
		Err:     err,
	}
}

// NewUnavailableError is returned when background capacity is exhausted.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// NewPayloadTooLargeError is returned when an upload exceeds the body limit.
func NewPayloadTooLargeError(limit int64) *AppError {
	return &AppError{
		Code:    ErrCodeTooLarge,
		Message: fmt.Sprintf("request body exceeds %d bytes", limit),
		Status:  http.StatusRequestEntityTooLarge,
	}
}

// FromAnalysis maps pipeline errors onto API errors. AppErrors pass through.
func FromAnalysis(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case stderrors.Is(err, analysis.ErrInvalidInput):
		return &AppError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
			Status:  http.StatusBadRequest,
			Err:     err,
		}
	case stderrors.Is(err, analysis.ErrDataIntegrity), stderrors.Is(err, analysis.ErrUndefinedRatio):
		return NewUnprocessableError(err)
	default:
		return NewInternalError(err)
	}
}
