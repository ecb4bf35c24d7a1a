package validation

import (
	"strings"
	"time"
	"unicode"

	"activity-tracker/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a validator using default limits.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinMaxLength counts runes, not bytes.
func (v *Validator) IsWithinMaxLength(s string, max int) bool {
	return len([]rune(s)) <= max
}

// HasControlCharacters reports newlines, tabs and other control runes,
// which would break single-line labels and CSV rows.
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidTimeRange accepts equal start and end.
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return !end.Before(start)
}

// IsValidDuration checks the interval does not exceed the configured maximum.
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration <= v.getMaxDuration()
}

func (v *Validator) getTaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255
}

func (v *Validator) getMaxDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxDuration
	}
	return 24 * time.Hour
}
