package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-tracker/internal/errors"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = original })
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(i int64) *int64 { return &i }

func TestUpsertRecent_CreatesUnpinned(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	pinClock(t, base)

	ok, err := repo.UpsertRecent(ctx, "Task A", RecentOverrides{})
	require.NoError(t, err)
	assert.True(t, ok)

	item, err := repo.GetRecent(ctx, "Task A")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.False(t, item.Pinned)
	assert.Equal(t, base.UnixMilli(), item.LastUsed)
	assert.False(t, item.Order.Valid)
	assert.Equal(t, []string{}, item.Tags)
}

func TestUpsertRecent_PinOverridePreservesText(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.UpsertRecent(ctx, "Task A", RecentOverrides{})
	require.NoError(t, err)
	_, err = repo.UpsertRecent(ctx, "Task A", RecentOverrides{Pinned: boolPtr(true)})
	require.NoError(t, err)

	items, err := repo.GetAllRecent(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Task A", items[0].Text)
	assert.True(t, items[0].Pinned)
}

func TestUpsertRecent_KeepsFieldsNotOverridden(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	pinClock(t, base)
	_, err := repo.UpsertRecent(ctx, "Deploy", RecentOverrides{
		Pinned: boolPtr(true),
		Order:  int64Ptr(4),
		Tags:   []string{"ops"},
	})
	require.NoError(t, err)

	pinClock(t, base.Add(time.Minute))
	_, err = repo.UpsertRecent(ctx, "Deploy", RecentOverrides{})
	require.NoError(t, err)

	item, err := repo.GetRecent(ctx, "Deploy")
	require.NoError(t, err)
	assert.True(t, item.Pinned)
	assert.Equal(t, sql.NullInt64{Int64: 4, Valid: true}, item.Order)
	assert.Equal(t, []string{"ops"}, item.Tags)
	assert.Equal(t, base.Add(time.Minute).UnixMilli(), item.LastUsed)
}

func TestUpsertRecent_LastUsedOverride(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	pinClock(t, base)

	_, err := repo.UpsertRecent(ctx, "Old", RecentOverrides{LastUsed: int64Ptr(42)})
	require.NoError(t, err)

	item, err := repo.GetRecent(ctx, "Old")
	require.NoError(t, err)
	assert.Equal(t, int64(42), item.LastUsed)
}

func TestDeleteRecent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	_, err := repo.UpsertRecent(ctx, "Task A", RecentOverrides{})
	require.NoError(t, err)

	deleted, err := repo.DeleteRecent(ctx, "")
	require.NoError(t, err)
	assert.False(t, deleted)

	items, err := repo.GetAllRecent(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "an empty key must not mutate the table")

	deleted, err = repo.DeleteRecent(ctx, "Task A")
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err = repo.GetAllRecent(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetRecentPinned(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	pinClock(t, base)

	require.NoError(t, repo.SetRecentPinned(ctx, "Synthesized", true))
	item, err := repo.GetRecent(ctx, "Synthesized")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.Pinned)
	assert.Equal(t, base.UnixMilli(), item.LastUsed)

	_, err = repo.UpsertRecent(ctx, "Ranked", RecentOverrides{Order: int64Ptr(7)})
	require.NoError(t, err)
	require.NoError(t, repo.SetRecentPinned(ctx, "Ranked", true))

	item, err = repo.GetRecent(ctx, "Ranked")
	require.NoError(t, err)
	assert.True(t, item.Pinned)
	assert.Equal(t, int64(7), item.Order.Int64, "SetRecentPinned does not reorder")
}

func TestPutAndDeleteRecentItems(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	items := []*RecentInput{
		{Text: "a", LastUsed: 1, Order: sql.NullInt64{Int64: 0, Valid: true}, Tags: []string{"x"}},
		{Text: "b", LastUsed: 2, Order: sql.NullInt64{Int64: 1, Valid: true}},
		{Text: "c", Pinned: true, LastUsed: 3},
	}
	require.NoError(t, repo.PutRecentItems(ctx, items))

	all, err := repo.GetAllRecent(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byText := map[string]*RecentInput{}
	for _, item := range all {
		byText[item.Text] = item
	}
	assert.Equal(t, []string{"x"}, byText["a"].Tags)
	assert.Equal(t, []string{}, byText["b"].Tags)
	assert.True(t, byText["c"].Pinned)
	assert.False(t, byText["c"].Order.Valid)

	n, err := repo.DeleteRecentItems(ctx, []string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err = repo.GetAllRecent(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Text)
}

func TestRenameRecent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutRecentItems(ctx, []*RecentInput{
		{Text: "old", Pinned: true, LastUsed: 7, Order: sql.NullInt64{Int64: 2, Valid: true}, Tags: []string{"dev"}},
		{Text: "other", LastUsed: 1},
	}))

	require.NoError(t, repo.RenameRecent(ctx, "old", "new"))

	gone, err := repo.GetRecent(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, gone)

	renamed, err := repo.GetRecent(ctx, "new")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.True(t, renamed.Pinned)
	assert.Equal(t, int64(7), renamed.LastUsed)
	assert.Equal(t, int64(2), renamed.Order.Int64)
	assert.Equal(t, []string{"dev"}, renamed.Tags)

	err = repo.RenameRecent(ctx, "new", "other")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	err = repo.RenameRecent(ctx, "missing", "x")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	all, err := repo.GetAllRecent(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].Text)
	assert.Equal(t, "other", all[1].Text)
}
