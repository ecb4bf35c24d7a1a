package sqlite

import (
	"context"
	"time"

	"activity-tracker/internal/errors"
)

const activityColumns = `end_time, start_time, task`

// GetAllActivities returns every activity ordered by end time.
func (r *SQLiteRepository) GetAllActivities(ctx context.Context) ([]*Activity, error) {
	return WithTransaction(ctx, r.db, TableActivities, ReadOnly, func(s *Scope) ([]*Activity, error) {
		query := `SELECT ` + activityColumns + ` FROM activities ORDER BY end_time ASC`
		return QueryMultiple(ctx, s, query, ScanActivities, "activities")
	})
}

// GetLastActivity returns the activity with the greatest end time, read by
// walking the end_time index backwards. It returns nil on an empty table.
func (r *SQLiteRepository) GetLastActivity(ctx context.Context) (*Activity, error) {
	return WithTransaction(ctx, r.db, TableActivities, ReadOnly, func(s *Scope) (*Activity, error) {
		query := `SELECT ` + activityColumns + `
		FROM activities INDEXED BY idx_activities_end_time
		ORDER BY end_time DESC
		LIMIT 1`
		return QueryOptional(ctx, s, query, ScanActivity, "activity")
	})
}

// GetActivityByEnd returns the activity keyed by end, or nil if there is none.
func (r *SQLiteRepository) GetActivityByEnd(ctx context.Context, end time.Time) (*Activity, error) {
	if end.IsZero() {
		return nil, nil
	}
	return WithTransaction(ctx, r.db, TableActivities, ReadOnly, func(s *Scope) (*Activity, error) {
		return activityByKey(ctx, s, FormatTimeForDB(end))
	})
}

// PutActivity inserts or overwrites the activity keyed by its end time.
func (r *SQLiteRepository) PutActivity(ctx context.Context, activity *Activity) error {
	_, err := WithTransaction(ctx, r.db, TableActivities, ReadWrite, func(s *Scope) (struct{}, error) {
		return struct{}{}, putActivity(ctx, s, activity)
	})
	return err
}

// DeleteActivityByEnd deletes the activity keyed by end. A zero end is not
// a key and returns false without touching the database.
func (r *SQLiteRepository) DeleteActivityByEnd(ctx context.Context, end time.Time) (bool, error) {
	if end.IsZero() {
		return false, nil
	}
	return WithTransaction(ctx, r.db, TableActivities, ReadWrite, func(s *Scope) (bool, error) {
		if err := deleteActivity(ctx, s, FormatTimeForDB(end)); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ReplaceActivity stores activity in place of the one keyed by oldEnd. When
// the end time changes the old row is removed and the new key must be free.
func (r *SQLiteRepository) ReplaceActivity(ctx context.Context, oldEnd time.Time, activity *Activity) error {
	_, err := WithTransaction(ctx, r.db, TableActivities, ReadWrite, func(s *Scope) (struct{}, error) {
		oldKey := FormatTimeForDB(oldEnd)
		newKey := activity.Key()

		if oldKey != newKey {
			existing, err := activityByKey(ctx, s, newKey)
			if err != nil {
				return struct{}{}, err
			}
			if existing != nil {
				return struct{}{}, errors.NewConflictError("activity", newKey)
			}
			if err := deleteActivity(ctx, s, oldKey); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, putActivity(ctx, s, activity)
	})
	return err
}

// DeleteActivityAndBridge deletes the activity keyed by end. If the next
// activity started exactly when the deleted one ended, its start is moved
// back to the deleted activity's start so the timeline has no gap. The
// adjusted neighbour is returned, or nil when none was changed.
func (r *SQLiteRepository) DeleteActivityAndBridge(ctx context.Context, end time.Time) (*Activity, error) {
	if end.IsZero() {
		return nil, nil
	}
	return WithTransaction(ctx, r.db, TableActivities, ReadWrite, func(s *Scope) (*Activity, error) {
		key := FormatTimeForDB(end)
		deleted, err := activityByKey(ctx, s, key)
		if err != nil || deleted == nil {
			return nil, err
		}

		query := `SELECT ` + activityColumns + `
		FROM activities
		WHERE end_time > ?
		ORDER BY end_time ASC
		LIMIT 1`
		next, err := QueryOptional(ctx, s, query, ScanActivity, "activity", key)
		if err != nil {
			return nil, err
		}

		if err := deleteActivity(ctx, s, key); err != nil {
			return nil, err
		}

		if next == nil || !next.StartTime.Equal(deleted.EndTime) {
			return nil, nil
		}
		next.StartTime = deleted.StartTime
		if err := putActivity(ctx, s, next); err != nil {
			return nil, err
		}
		return next, nil
	})
}

func activityByKey(ctx context.Context, s *Scope, key string) (*Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE end_time = ?`
	return QueryOptional(ctx, s, query, ScanActivity, "activity", key)
}

func putActivity(ctx context.Context, s *Scope, activity *Activity) error {
	query := `
	INSERT INTO activities (end_time, start_time, task)
	VALUES (?, ?, ?)
	ON CONFLICT(end_time) DO UPDATE SET
		start_time = excluded.start_time,
		task = excluded.task`
	_, err := ExecuteInScope(ctx, s, "put activity", query,
		activity.Key(), FormatTimeForDB(activity.StartTime), activity.Task)
	return err
}

func deleteActivity(ctx context.Context, s *Scope, key string) error {
	_, err := ExecuteInScope(ctx, s, "delete activity", `DELETE FROM activities WHERE end_time = ?`, key)
	return err
}
