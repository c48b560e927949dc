package apperr

import (
	"errors"
	"net/http"
)

// Codes reported to callers in the "error" field of a failure body.
const (
	CodeUnknownPermission   = "E_UNKNOWN_PERMISSION"
	CodeActivityUnavailable = "E_ACTIVITY_DOES_NOT_EXIST"
	CodeUnauthorized        = "E_UNAUTHORIZED"
	CodeProvider            = "E_PROVIDER"
	CodeValidation          = "E_VALIDATION"
	CodeInternal            = "E_INTERNAL"
)

type Error struct {
	Code       string
	Message    string
	StatusCode int
	Cause      error
	// Fields maps request fields to validation messages.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Unauthorized(code, message string) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusUnauthorized}
}

func BadRequest(code, message string) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusBadRequest}
}

func Conflict(code, message string) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusConflict}
}

func BadGateway(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusBadGateway, Cause: cause}
}

func Internal(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusInternalServerError, Cause: cause}
}

func Validation(fields map[string]string) *Error {
	return &Error{
		Code:       CodeValidation,
		Message:    "request validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
