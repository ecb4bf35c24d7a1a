package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewDatabaseError("put activity", cause)

	if err.Type != ErrorTypeDatabase {
		t.Errorf("NewDatabaseError type = %v, want %v", err.Type, ErrorTypeDatabase)
	}
	if err.Message != "database operation failed: put activity" {
		t.Errorf("NewDatabaseError message = %v", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Errorf("NewDatabaseError should unwrap to its cause")
	}
	if err.Op != "put activity" {
		t.Errorf("NewDatabaseError op = %v", err.Op)
	}
}

func TestNewConflictError(t *testing.T) {
	err := NewConflictError("activity", "2025-01-01T10:00:00.000Z")

	if err.Type != ErrorTypeConflict {
		t.Errorf("NewConflictError type = %v, want %v", err.Type, ErrorTypeConflict)
	}
	if err.Code != "ALREADY_EXISTS" {
		t.Errorf("NewConflictError code = %v", err.Code)
	}
	if err.Message != "activity already exists: 2025-01-01T10:00:00.000Z" {
		t.Errorf("NewConflictError message = %v", err.Message)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("recent item", "Standup")

	if err.Type != ErrorTypeNotFound {
		t.Errorf("NewNotFoundError type = %v, want %v", err.Type, ErrorTypeNotFound)
	}
	if err.Message != "recent item not found: Standup" {
		t.Errorf("NewNotFoundError message = %v", err.Message)
	}
	if err.Subject != "recent item Standup" {
		t.Errorf("NewNotFoundError subject = %v", err.Subject)
	}
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      string
	}{
		{ErrorTypeValidation, "validation"},
		{ErrorTypeNotFound, "not_found"},
		{ErrorTypeDatabase, "database"},
		{ErrorTypeInvalidInput, "invalid_input"},
		{ErrorTypeTimeout, "timeout"},
		{ErrorTypeConflict, "conflict"},
		{ErrorType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.errorType.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %v, want %v", tt.errorType, got, tt.want)
		}
	}
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	inner := NewInvalidInputError("order", []string{"a"}, "mixed partitions")
	wrapped := fmt.Errorf("reorder: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError should find the wrapped AppError")
	}
	if appErr != inner {
		t.Errorf("AsAppError returned %v, want %v", appErr, inner)
	}
	if !IsErrorType(wrapped, ErrorTypeInvalidInput) {
		t.Error("IsErrorType should see through fmt wrapping")
	}
	if _, ok := AsAppError(errors.New("plain")); ok {
		t.Error("AsAppError should be false for plain errors")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"conflict shows message", NewConflictError("activity", "x"), "activity already exists: x"},
		{"database hides details", NewDatabaseError("commit", errors.New("locked")), "A database error occurred. Please try again."},
		{"timeout", NewTimeoutError("trim", "5s"), "The operation timed out. Please try again."},
		{"plain error", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.want {
				t.Errorf("GetUserMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldLogError(t *testing.T) {
	if ShouldLogError(NewValidationError("bad", nil)) {
		t.Error("validation errors are user errors and should not be logged")
	}
	if ShouldLogError(NewConflictError("activity", "x")) {
		t.Error("conflict errors are user errors and should not be logged")
	}
	if !ShouldLogError(NewDatabaseError("open", nil)) {
		t.Error("database errors should be logged")
	}
	if !ShouldLogError(errors.New("unknown")) {
		t.Error("unknown errors should be logged")
	}
}

func TestAppErrorIs(t *testing.T) {
	a := NewNotFoundError("activity", "1")
	b := NewNotFoundError("recent item", "2")
	if !errors.Is(a, b) {
		t.Error("errors with the same type and code should match")
	}
	if errors.Is(a, NewConflictError("activity", "1")) {
		t.Error("errors with different types should not match")
	}
}

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("pin recent item", "10s")

	if err.Message != "operation timed out after 10s: pin recent item" {
		t.Errorf("NewTimeoutError message = %v", err.Message)
	}
	if err.Op != "pin recent item" {
		t.Errorf("NewTimeoutError op = %v", err.Op)
	}
}

func TestInvalidInputSubject(t *testing.T) {
	err := NewInvalidInputError("keep", -2, "must be a non-negative number")

	if err.Subject != "keep=-2" {
		t.Errorf("NewInvalidInputError subject = %v", err.Subject)
	}
	if !ShouldLogError(WrapError(err, ErrorTypeDatabase, "wrapped")) {
		t.Error("the outermost AppError decides whether to log")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(NewValidationError("bad", nil)); got != "VALIDATION_FAILED" {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := GetErrorCode(errors.New("plain")); got != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode() = %v", got)
	}
}
