package sqlite

import (
	"context"
	"time"
)

// timeNow is replaced in tests to pin lastUsed stamps.
var timeNow = time.Now

// Repository defines the interface for database operations
type Repository interface {
	// Activity store
	GetAllActivities(ctx context.Context) ([]*Activity, error)
	GetLastActivity(ctx context.Context) (*Activity, error)
	GetActivityByEnd(ctx context.Context, end time.Time) (*Activity, error)
	PutActivity(ctx context.Context, activity *Activity) error
	DeleteActivityByEnd(ctx context.Context, end time.Time) (bool, error)
	ReplaceActivity(ctx context.Context, oldEnd time.Time, activity *Activity) error
	DeleteActivityAndBridge(ctx context.Context, end time.Time) (*Activity, error)

	// Recent-item store
	GetAllRecent(ctx context.Context) ([]*RecentInput, error)
	GetRecent(ctx context.Context, text string) (*RecentInput, error)
	UpsertRecent(ctx context.Context, text string, overrides RecentOverrides) (bool, error)
	SetRecentPinned(ctx context.Context, text string, pinned bool) error
	DeleteRecent(ctx context.Context, text string) (bool, error)
	PutRecentItems(ctx context.Context, items []*RecentInput) error
	DeleteRecentItems(ctx context.Context, texts []string) (int, error)
	RenameRecent(ctx context.Context, oldText, newText string) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *DB
}

// New opens the database at dbPath and returns a repository over it.
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// DB returns the underlying handle.
func (r *SQLiteRepository) DB() *DB {
	return r.db
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
