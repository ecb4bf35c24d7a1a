package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"activity-tracker/internal/flatstore"
	"activity-tracker/internal/repository/sqlite"
	"activity-tracker/internal/settings"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupRankingService(t *testing.T) (RankingService, *sqlite.SQLiteRepository, *settings.Store) {
	t.Helper()
	repo := setupRepo(t)
	store := settings.NewStore(flatstore.NewMemory())
	return NewRankingService(repo, store, nil, nil), repo, store
}

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = original })
}

func row(text string, pinned bool, order int64, lastUsed int64) *sqlite.RecentInput {
	return &sqlite.RecentInput{
		Text:     text,
		Pinned:   pinned,
		LastUsed: lastUsed,
		Order:    sql.NullInt64{Int64: order, Valid: true},
		Tags:     []string{},
	}
}
