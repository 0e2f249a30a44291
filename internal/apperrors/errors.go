package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeNoToken          ErrorCode = "NO_TOKEN"
	CodeInvalidToken     ErrorCode = "INVALID_TOKEN"
	CodePasswordNotSet   ErrorCode = "PASSWORD_NOT_SET"
	CodeInvalidPassword  ErrorCode = "INVALID_PASSWORD"
	CodePasswordSet      ErrorCode = "PASSWORD_ALREADY_SET"
	CodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// AppError carries the HTTP status and the client-facing message of a failure.
type AppError struct {
	Code     ErrorCode
	Message  string
	Details  interface{}
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so sentinel values work with errors.Is after wrapping.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode, Err: err}
}

// WithDetails returns a copy so shared sentinels are never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

var (
	ErrNoToken         = New(CodeNoToken, "Access denied. No token provided.", http.StatusUnauthorized)
	ErrInvalidToken    = New(CodeInvalidToken, "Invalid or expired token.", http.StatusForbidden)
	ErrPasswordNotSet  = New(CodePasswordNotSet, "No admin password has been set.", http.StatusUnauthorized)
	ErrInvalidPassword = New(CodeInvalidPassword, "Invalid password", http.StatusUnauthorized)
	ErrPasswordSet     = New(CodePasswordSet, "Admin password is already set", http.StatusConflict)
)

func Validation(message string, details interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Details: details, HTTPCode: http.StatusBadRequest}
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func ProcessingFailed(err error) *AppError {
	return Wrap(err, CodeProcessingFailed, "Failed to process image", http.StatusInternalServerError)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

// From converts any error into an AppError. Unknown errors become 500s.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
