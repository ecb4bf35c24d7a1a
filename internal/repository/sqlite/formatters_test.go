package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "2025-01-02T03:04:05.000Z"},
		{"offset converted", time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("", -5*3600)), "2025-01-02T08:04:05.000Z"},
		{"nanos truncated", time.Date(2025, 1, 2, 3, 4, 5, 999_999_999, time.UTC), "2025-01-02T03:04:05.999Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimeForDB(tt.in))
		})
	}
}

func TestFormatTimeForDB_SortsChronologically(t *testing.T) {
	early := FormatTimeForDB(time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC))
	late := FormatTimeForDB(time.Date(2025, 1, 2, 10, 0, 0, 0, time.FixedZone("", 3600)))
	// 10:00+01:00 is 09:00Z, one second later would sort after.
	assert.Equal(t, early, late)
	assert.Less(t, early, FormatTimeForDB(time.Date(2025, 1, 2, 9, 0, 1, 0, time.UTC)))
}

func TestParseTimeFromDB(t *testing.T) {
	got, err := ParseTimeFromDB("2025-01-02T03:04:05.678Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC), got)

	_, err = ParseTimeFromDB("not a time")
	assert.Error(t, err)
}

func TestMillisRoundTrip(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	assert.Equal(t, at, ParseMillisFromDB(FormatMillisForDB(at)))
}
