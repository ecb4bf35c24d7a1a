package domain

import (
	"time"
)

// Activity is one logged work interval. EndTime identifies it.
type Activity struct {
	Task      string
	StartTime time.Time
	EndTime   time.Time
}

// NewActivity creates an Activity for task between start and end.
func NewActivity(task string, start, end time.Time) Activity {
	return Activity{
		Task:      task,
		StartTime: start,
		EndTime:   end,
	}
}

// Duration returns the elapsed time, or zero when end precedes start.
func (a Activity) Duration() time.Duration {
	if a.EndTime.Before(a.StartTime) {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}

