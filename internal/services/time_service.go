package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"activity-tracker/internal/errors"
)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	location *time.Location
}

// NewTimeService creates a TimeService that reads clock times in loc.
// A nil loc means time.Local.
func NewTimeService(loc *time.Location) TimeService {
	if loc == nil {
		loc = time.Local
	}
	return &timeServiceImpl{location: loc}
}

var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseTime converts user input into an instant.
func (t *timeServiceImpl) ParseTime(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	now := timeNow().In(t.location)

	if input == "" {
		return time.Time{}, errors.NewValidationError("time cannot be empty", nil)
	}
	if strings.EqualFold(input, "now") {
		return now, nil
	}
	if input[0] == '-' || input[0] == '+' {
		offset, err := time.ParseDuration(input)
		if err != nil {
			return time.Time{}, errors.NewValidationError("invalid relative time "+input, err)
		}
		return now.Add(offset), nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return parsed, nil
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, input, t.location); err == nil {
			return parsed, nil
		}
	}
	for _, layout := range clockLayouts {
		if clock, err := time.ParseInLocation(layout, input, t.location); err == nil {
			return time.Date(now.Year(), now.Month(), now.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, t.location), nil
		}
	}

	return time.Time{}, errors.NewValidationError("invalid time format "+input, nil)
}

// ParseTimeRange converts time shorthand ("30m", "2h", "1d") to actual time range
func (t *timeServiceImpl) ParseTimeRange(input string) (*TimeRange, error) {
	if input == "" {
		return nil, errors.NewValidationError("time range cannot be empty", nil)
	}

	duration, err := t.parseTimeShorthand(input)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	return &TimeRange{
		Start: now.Add(-duration),
		End:   now,
	}, nil
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

// parseTimeShorthand parses a count and a unit: m, h, d, w, mo or y.
func (t *timeServiceImpl) parseTimeShorthand(input string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(input)
	if matches == nil {
		return 0, errors.NewValidationError("invalid time range "+input, nil)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, errors.NewValidationError("invalid number in time range "+input, err)
	}

	var unit time.Duration
	switch matches[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	case "mo":
		unit = 30 * 24 * time.Hour
	case "y":
		unit = 365 * 24 * time.Hour
	}
	return time.Duration(value) * unit, nil
}
