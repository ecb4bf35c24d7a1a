package domain

import (
	"database/sql"
	"testing"
	"time"

	"activity-tracker/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func TestActivity_Duration(t *testing.T) {
	a := NewActivity("Review", start, start.Add(90*time.Minute))
	assert.Equal(t, 90*time.Minute, a.Duration())

	backwards := NewActivity("Review", start, start.Add(-time.Minute))
	assert.Equal(t, time.Duration(0), backwards.Duration())
}

func TestRecentItem_OrderAndTags(t *testing.T) {
	item := RecentItem{Text: "Standup", Tags: []string{"team"}}
	assert.Equal(t, 7, item.OrderOr(7))

	item.SetOrder(2)
	assert.Equal(t, 2, item.OrderOr(7))
	assert.True(t, item.HasTag("team"))
	assert.False(t, item.HasTag("solo"))
	assert.False(t, item.HasTag("Team"))
}

func TestRecentItemMapper_RoundTrip(t *testing.T) {
	mapper := NewMapper().RecentItem
	lastUsed := time.Date(2025, 4, 1, 9, 30, 0, 250_000_000, time.UTC)

	ranked := RecentItem{Text: "Deploy", Pinned: true, LastUsed: lastUsed, Tags: []string{"ops"}}
	ranked.SetOrder(3)

	row := mapper.ToDatabase(ranked)
	assert.Equal(t, &sqlite.RecentInput{
		Text:     "Deploy",
		Pinned:   true,
		LastUsed: lastUsed.UnixMilli(),
		Order:    sql.NullInt64{Int64: 3, Valid: true},
		Tags:     []string{"ops"},
	}, row)

	back := mapper.FromDatabase(row)
	require.NotNil(t, back)
	assert.Equal(t, ranked.Text, back.Text)
	assert.True(t, back.LastUsed.Equal(lastUsed))
	require.NotNil(t, back.Order)
	assert.Equal(t, 3, *back.Order)
}

func TestRecentItemMapper_NullOrder(t *testing.T) {
	mapper := NewRecentItemMapper()

	item := mapper.FromDatabase(&sqlite.RecentInput{Text: "Unranked", LastUsed: 0})
	assert.Nil(t, item.Order)
	assert.Equal(t, []string{}, item.Tags)

	row := mapper.ToDatabase(*item)
	assert.False(t, row.Order.Valid)
	assert.Nil(t, mapper.FromDatabase(nil))
}

func TestActivityMapper(t *testing.T) {
	mapper := NewActivityMapper()
	rows := []*sqlite.Activity{
		{Task: "a", StartTime: start, EndTime: start.Add(time.Hour)},
		{Task: "b", StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)},
	}

	activities := mapper.FromDatabaseSlice(rows)
	require.Len(t, activities, 2)
	assert.Equal(t, "b", activities[1].Task)

	row := mapper.ToDatabase(*activities[0])
	assert.Equal(t, rows[0], row)
	assert.Nil(t, mapper.FromDatabase(nil))
}
