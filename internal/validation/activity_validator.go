package validation

import (
	"strings"
	"time"
)

// ActivityValidator checks activities before they reach the store, which
// itself enforces nothing beyond key uniqueness.
type ActivityValidator struct {
	validator *Validator
}

// NewActivityValidator creates a new activity validator
func NewActivityValidator(v *Validator) *ActivityValidator {
	if v == nil {
		v = NewValidator()
	}
	return &ActivityValidator{validator: v}
}

// ValidateActivity validates a task label and its interval. The returned
// task is trimmed.
func (av *ActivityValidator) ValidateActivity(task string, start, end time.Time) (string, error) {
	validationError := NewValidationError()
	task = strings.TrimSpace(task)

	av.validateTask(validationError, task)

	if start.IsZero() {
		validationError.AddRequiredError("start_time")
	}
	if end.IsZero() {
		validationError.AddRequiredError("end_time")
	}
	if !start.IsZero() && !end.IsZero() {
		if !av.validator.IsValidTimeRange(start, end) {
			validationError.AddInvalidRangeError("time_range", map[string]time.Time{
				"start": start,
				"end":   end,
			}, "end time must not be before start time")
		} else if !av.validator.IsValidDuration(end.Sub(start)) {
			validationError.AddInvalidValueError("duration", end.Sub(start),
				"must not exceed "+av.validator.getMaxDuration().String())
		}
	}

	return task, validationError.orNil()
}

func (av *ActivityValidator) validateTask(validationError *ValidationError, task string) {
	if !av.validator.IsNonEmptyString(task) {
		validationError.AddRequiredError("task")
		return
	}
	if max := av.validator.getTaskNameMaxLength(); !av.validator.IsWithinMaxLength(task, max) {
		validationError.AddInvalidLengthError("task", task, max)
	}
	if av.validator.HasControlCharacters(task) {
		validationError.AddInvalidValueError("task", task, "must not contain control characters")
	}
}
