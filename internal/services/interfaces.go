package services

import (
	"context"
	"time"

	"activity-tracker/internal/domain"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// TimeRange represents a time period with start and end times
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DeleteResult describes the outcome of an activity delete.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
	// Adjusted is the following activity whose start was moved back to
	// close the gap, if any.
	Adjusted *domain.Activity `json:"adjusted,omitempty"`
}

// SeedItem is a default pinned label inserted on first start.
type SeedItem struct {
	Text string
	Tags []string
}

// SeedFlag records whether the defaults were inserted.
type SeedFlag interface {
	Seeded() bool
	MarkSeeded() error
}

// TimeService parses the times users type.
type TimeService interface {
	// ParseTime accepts "now", a signed duration relative to now ("-45m"),
	// a clock time today ("14:30"), a local date and time
	// ("2026-03-02 14:30") or RFC 3339.
	ParseTime(input string) (time.Time, error)
	// ParseTimeRange converts shorthand ("30m", "2h", "3d", "1w", "6mo",
	// "1y") into the range ending now.
	ParseTimeRange(input string) (*TimeRange, error)
}

// ActivityService handles the activity history.
type ActivityService interface {
	LogActivity(ctx context.Context, task string, start, end time.Time) (*domain.Activity, error)
	EditActivity(ctx context.Context, oldEnd time.Time, task string, start, end time.Time) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, end time.Time, bridge bool) (*DeleteResult, error)
	GetActivity(ctx context.Context, end time.Time) (*domain.Activity, error)
	ListActivities(ctx context.Context, timeRange *TimeRange) ([]*domain.Activity, error)
	LastActivity(ctx context.Context) (*domain.Activity, error)
}

// RankingService maintains the pinned and unpinned recent-item list.
// It keeps no state between calls: every operation reloads the table.
// Concurrent mutations are not isolated from each other; callers serialize.
type RankingService interface {
	OnNewTask(ctx context.Context, text string) error
	OnPinToggle(ctx context.Context, text string, pinned bool) ([]*domain.RecentItem, error)
	PersistOrder(ctx context.Context, texts []string) error
	TrimUnpinned(ctx context.Context, keep int) (int, error)
	SortForDisplay(items []*domain.RecentItem) []*domain.RecentItem
	SeedDefaults(ctx context.Context) error

	ListRecent(ctx context.Context) ([]*domain.RecentItem, error)
	SetTags(ctx context.Context, text string, tags []string) (*domain.RecentItem, error)
	Rename(ctx context.Context, oldText, newText string) error
	DeleteRecent(ctx context.Context, text string) (bool, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService     TimeService
	ActivityService ActivityService
	RankingService  RankingService
}
