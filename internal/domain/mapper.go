package domain

import (
	"database/sql"

	"activity-tracker/internal/repository/sqlite"
)

// ActivityMapper handles conversion between domain and database Activity models.
type ActivityMapper struct{}

// NewActivityMapper creates a new ActivityMapper instance.
func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

// ToDatabase converts a domain Activity to a database Activity.
func (m *ActivityMapper) ToDatabase(activity Activity) *sqlite.Activity {
	return &sqlite.Activity{
		Task:      activity.Task,
		StartTime: activity.StartTime,
		EndTime:   activity.EndTime,
	}
}

// FromDatabase converts a database Activity to a domain Activity.
func (m *ActivityMapper) FromDatabase(row *sqlite.Activity) *Activity {
	if row == nil {
		return nil
	}
	return &Activity{
		Task:      row.Task,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
	}
}

// FromDatabaseSlice converts database rows to domain Activities.
func (m *ActivityMapper) FromDatabaseSlice(rows []*sqlite.Activity) []*Activity {
	activities := make([]*Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, m.FromDatabase(row))
	}
	return activities
}

// RecentItemMapper converts recent items. Persisted lastUsed is epoch
// milliseconds and a missing order is SQL NULL.
type RecentItemMapper struct{}

// NewRecentItemMapper creates a new RecentItemMapper instance.
func NewRecentItemMapper() *RecentItemMapper {
	return &RecentItemMapper{}
}

// ToDatabase converts a domain RecentItem to a database RecentInput.
func (m *RecentItemMapper) ToDatabase(item RecentItem) *sqlite.RecentInput {
	row := &sqlite.RecentInput{
		Text:     item.Text,
		Pinned:   item.Pinned,
		LastUsed: sqlite.FormatMillisForDB(item.LastUsed),
		Tags:     append([]string{}, item.Tags...),
	}
	if item.Order != nil {
		row.Order = sql.NullInt64{Int64: int64(*item.Order), Valid: true}
	}
	return row
}

// FromDatabase converts a database RecentInput to a domain RecentItem.
func (m *RecentItemMapper) FromDatabase(row *sqlite.RecentInput) *RecentItem {
	if row == nil {
		return nil
	}
	item := &RecentItem{
		Text:     row.Text,
		Pinned:   row.Pinned,
		LastUsed: sqlite.ParseMillisFromDB(row.LastUsed),
		Tags:     append([]string{}, row.Tags...),
	}
	if row.Order.Valid {
		item.SetOrder(int(row.Order.Int64))
	}
	return item
}

// ToDatabaseSlice converts domain RecentItems to database rows.
func (m *RecentItemMapper) ToDatabaseSlice(items []*RecentItem) []*sqlite.RecentInput {
	rows := make([]*sqlite.RecentInput, 0, len(items))
	for _, item := range items {
		rows = append(rows, m.ToDatabase(*item))
	}
	return rows
}

// FromDatabaseSlice converts database rows to domain RecentItems.
func (m *RecentItemMapper) FromDatabaseSlice(rows []*sqlite.RecentInput) []*RecentItem {
	items := make([]*RecentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, m.FromDatabase(row))
	}
	return items
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Activity   *ActivityMapper
	RecentItem *RecentItemMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Activity:   NewActivityMapper(),
		RecentItem: NewRecentItemMapper(),
	}
}
