package sqlite

import (
	"time"
)

// timestampLayout is the persisted form of every activity timestamp:
// UTC with millisecond precision, so string order equals time order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimeForDB formats t as the canonical key string used in the activities table.
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimeFromDB parses a persisted timestamp. Any RFC3339 value is accepted
// so rows written before canonicalisation still load.
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatMillisForDB converts t to epoch milliseconds.
func FormatMillisForDB(t time.Time) int64 {
	return t.UnixMilli()
}

// ParseMillisFromDB converts epoch milliseconds back to a UTC time.
func ParseMillisFromDB(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
