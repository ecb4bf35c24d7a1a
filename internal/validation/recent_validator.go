package validation

import (
	"strings"

	"activity-tracker/internal/domain"
)

// RecentValidator validates recent-item labels, tags and reorder requests.
type RecentValidator struct {
	validator *Validator
}

// NewRecentValidator creates a new recent-item validator
func NewRecentValidator(v *Validator) *RecentValidator {
	if v == nil {
		v = NewValidator()
	}
	return &RecentValidator{validator: v}
}

// ValidateLabel returns the trimmed label or a validation error.
func (rv *RecentValidator) ValidateLabel(text string) (string, error) {
	validationError := NewValidationError()
	text = strings.TrimSpace(text)

	if !rv.validator.IsNonEmptyString(text) {
		validationError.AddRequiredError("text")
		return "", validationError
	}
	if max := rv.validator.getTaskNameMaxLength(); !rv.validator.IsWithinMaxLength(text, max) {
		validationError.AddInvalidLengthError("text", text, max)
	}
	if rv.validator.HasControlCharacters(text) {
		validationError.AddInvalidValueError("text", text, "must not contain control characters")
	}
	return text, validationError.orNil()
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order.
func (rv *RecentValidator) NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}

// ValidateSamePartition checks that every item of a manual reorder lives in
// the same partition. A drag across the pinned/unpinned boundary is a caller
// error, never coerced.
func (rv *RecentValidator) ValidateSamePartition(items []*domain.RecentItem) error {
	validationError := NewValidationError()
	if len(items) == 0 {
		return nil
	}

	pinned := items[0].Pinned
	for _, item := range items[1:] {
		if item.Pinned != pinned {
			validationError.AddInvalidValueError("order", item.Text, "reorder must stay within the pinned or the unpinned items")
			break
		}
	}
	return validationError.orNil()
}
