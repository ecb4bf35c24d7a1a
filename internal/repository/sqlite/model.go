package sqlite

import (
	"database/sql"
	"time"
)

// Activity is a row of the activities table. EndTime is the primary key.
type Activity struct {
	EndTime   time.Time
	StartTime time.Time
	Task      string
}

// Key returns the primary key string for the activity.
func (a *Activity) Key() string {
	return FormatTimeForDB(a.EndTime)
}

// RecentInput is a row of the recent inputs table. Text is the primary key.
type RecentInput struct {
	Text     string
	Pinned   bool
	LastUsed int64         // epoch milliseconds
	Order    sql.NullInt64 // NULL when the item was never ranked
	Tags     []string
}

// RecentOverrides carries the fields an upsert should force. A nil field
// keeps the stored value; a nil Tags slice keeps the stored tags.
type RecentOverrides struct {
	Pinned   *bool
	LastUsed *int64
	Order    *int64
	Tags     []string
}

func (o RecentOverrides) apply(item *RecentInput) {
	if o.Pinned != nil {
		item.Pinned = *o.Pinned
	}
	if o.LastUsed != nil {
		item.LastUsed = *o.LastUsed
	}
	if o.Order != nil {
		item.Order = sql.NullInt64{Int64: *o.Order, Valid: true}
	}
	if o.Tags != nil {
		item.Tags = append([]string{}, o.Tags...)
	}
}
