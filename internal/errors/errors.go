package errors

import (
	"errors"
	"fmt"
)

// NewValidationError reports input rejected by the validation rules.
// message is already phrased for the user.
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    "VALIDATION_FAILED",
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(resource, key string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, key),
		Subject: resource + " " + key,
	}
}

// NewConflictError reports a write whose key is already taken.
func NewConflictError(resource, key string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
		Subject: resource + " " + key,
	}
}

// NewDatabaseError wraps a storage failure during op.
func NewDatabaseError(op string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Code:    "DATABASE_ERROR",
		Message: "database operation failed: " + op,
		Op:      op,
		Cause:   cause,
	}
}

// NewInvalidInputError reports a caller mistake that no validation rule
// covers, such as an unknown table or a malformed reorder.
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Code:    "INVALID_INPUT",
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Subject: fmt.Sprintf("%s=%v", field, value),
	}
}

// NewTimeoutError reports op running past its deadline.
func NewTimeoutError(op string, limit interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Code:    "TIMEOUT",
		Message: fmt.Sprintf("operation timed out after %v: %s", limit, op),
		Op:      op,
	}
}

// WrapError classifies err under errorType with a new message.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    errorType.String(),
		Message: message,
		Cause:   err,
	}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == errorType
}

// GetUserMessage returns the text shown to the user for err. System
// failures get a generic retry hint instead of their detail.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	switch {
	case !ok:
		return err.Error()
	case appErr.Type.userFacing():
		return appErr.Message
	case appErr.Type == ErrorTypeDatabase:
		return "A database error occurred. Please try again."
	case appErr.Type == ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError is false for mistakes the user can fix from the message
// alone.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !appErr.Type.userFacing()
}
