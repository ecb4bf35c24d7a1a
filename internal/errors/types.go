package errors

import (
	"fmt"
)

// ErrorType classifies an AppError. Callers branch on it, never on text.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeConflict
)

var typeNames = map[ErrorType]string{
	ErrorTypeValidation:   "validation",
	ErrorTypeNotFound:     "not_found",
	ErrorTypeDatabase:     "database",
	ErrorTypeInvalidInput: "invalid_input",
	ErrorTypeTimeout:      "timeout",
	ErrorTypeConflict:     "conflict",
}

func (et ErrorType) String() string {
	if name, ok := typeNames[et]; ok {
		return name
	}
	return "unknown"
}

// userFacing reports whether the message of this type is safe and useful
// to show as is. The other types carry storage or runtime detail.
func (et ErrorType) userFacing() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeConflict:
		return true
	}
	return false
}

// AppError is what the tracker's packages return for every failure they
// classify.
//
// Op names the operation that failed ("put activity"). Subject names what
// it was about: a resource and key for not_found and conflict, a field for
// invalid_input.
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Op      string
	Subject string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type and code, so a sentinel
// built with any constructor works with errors.Is.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}
