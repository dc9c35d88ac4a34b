package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeAuth indicates the identity provider rejected a credential or
	// federated operation. The provider's message is surfaced verbatim.
	ErrCodeAuth ErrorCode = "auth"
	// ErrCodeProfileFetch indicates a profile read from the profile store
	// failed. Non-fatal to the session: it is logged and the profile is
	// left unset.
	ErrCodeProfileFetch ErrorCode = "profile_fetch"
	// ErrCodeProfileWrite indicates a profile upsert failed. Fatal to the
	// triggering operation: a missing profile right after registration is a
	// correctness failure.
	ErrCodeProfileWrite ErrorCode = "profile_write"
	// ErrCodeForbidden indicates the caller lacks the role for an operation.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// ProviderCode is the identity provider's own error code (optional,
	// for auth errors), e.g. "auth/popup-blocked".
	ProviderCode string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Auth wraps an identity provider rejection. The provider message is kept
// verbatim as the AppError message; code is the provider's error code when
// the provider supplied one.
func Auth(err error, providerCode string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:         ErrCodeAuth,
		Message:      err.Error(),
		Cause:        err,
		ProviderCode: providerCode,
	}
}

// ProfileFetch wraps a profile store read failure.
func ProfileFetch(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: ErrCodeProfileFetch, Message: "fetch profile", Cause: err}
}

// ProfileWrite wraps a profile store upsert failure.
func ProfileWrite(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: ErrCodeProfileWrite, Message: "write profile", Cause: err}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsAuth checks if an error is an identity provider rejection.
func IsAuth(err error) bool { return isCode(err, ErrCodeAuth) }

// IsProfileFetch checks if an error is a profile store read failure.
func IsProfileFetch(err error) bool { return isCode(err, ErrCodeProfileFetch) }

// IsProfileWrite checks if an error is a profile store write failure.
func IsProfileWrite(err error) bool { return isCode(err, ErrCodeProfileWrite) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetProviderCode returns the identity provider error code, or empty string
// if the error is not an AppError or carries none.
func GetProviderCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ProviderCode
	}
	return ""
}
