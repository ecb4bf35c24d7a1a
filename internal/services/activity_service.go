package services

import (
	"context"
	"time"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/errors"
	"activity-tracker/internal/logging"
	"activity-tracker/internal/repository/sqlite"
	"activity-tracker/internal/validation"
)

// activityServiceImpl implements the ActivityService interface
type activityServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.ActivityValidator
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(repo sqlite.Repository, v *validation.Validator) ActivityService {
	return &activityServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewActivityValidator(v),
	}
}

// Stored times keep millisecond precision in UTC; normalizing up front
// makes the returned record equal the stored one.
func canonical(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (a *activityServiceImpl) validate(task string, start, end time.Time) (domain.Activity, error) {
	start, end = canonical(start), canonical(end)
	trimmed, err := a.validator.ValidateActivity(task, start, end)
	if err != nil {
		if ve, ok := err.(*validation.ValidationError); ok {
			return domain.Activity{}, errors.NewValidationError(ve.GetUserFriendlyMessage(), err)
		}
		return domain.Activity{}, errors.NewValidationError("invalid activity", err)
	}
	return domain.NewActivity(trimmed, start, end), nil
}

// LogActivity stores a completed activity. The end time is the key, so an
// activity ending at the same millisecond as an existing one is rejected
// instead of overwriting it.
func (a *activityServiceImpl) LogActivity(ctx context.Context, task string, start, end time.Time) (*domain.Activity, error) {
	activity, err := a.validate(task, start, end)
	if err != nil {
		return nil, err
	}

	existing, err := a.repo.GetActivityByEnd(ctx, activity.EndTime)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("activity ending at", sqlite.FormatTimeForDB(activity.EndTime))
	}

	if err := a.repo.PutActivity(ctx, a.mapper.Activity.ToDatabase(activity)); err != nil {
		return nil, err
	}

	logging.Debugf("logged activity %q ending %s\n", activity.Task, sqlite.FormatTimeForDB(activity.EndTime))
	return &activity, nil
}

// EditActivity replaces the activity keyed by oldEnd. Changing the end time
// changes the key; the new key must not belong to another activity.
func (a *activityServiceImpl) EditActivity(ctx context.Context, oldEnd time.Time, task string, start, end time.Time) (*domain.Activity, error) {
	activity, err := a.validate(task, start, end)
	if err != nil {
		return nil, err
	}

	existing, err := a.repo.GetActivityByEnd(ctx, oldEnd)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("activity ending at", sqlite.FormatTimeForDB(oldEnd))
	}

	if err := a.repo.ReplaceActivity(ctx, oldEnd, a.mapper.Activity.ToDatabase(activity)); err != nil {
		return nil, err
	}
	return &activity, nil
}

// DeleteActivity removes the activity keyed by end. A zero end deletes
// nothing. With bridge set, the activity that started when this one ended
// is stretched back over the freed interval.
func (a *activityServiceImpl) DeleteActivity(ctx context.Context, end time.Time, bridge bool) (*DeleteResult, error) {
	if end.IsZero() {
		return &DeleteResult{}, nil
	}

	existing, err := a.repo.GetActivityByEnd(ctx, end)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("activity ending at", sqlite.FormatTimeForDB(end))
	}

	if !bridge {
		deleted, err := a.repo.DeleteActivityByEnd(ctx, end)
		if err != nil {
			return nil, err
		}
		return &DeleteResult{Deleted: deleted}, nil
	}

	adjusted, err := a.repo.DeleteActivityAndBridge(ctx, end)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: true, Adjusted: a.mapper.Activity.FromDatabase(adjusted)}, nil
}

// GetActivity returns the activity keyed by end, or a not found error.
func (a *activityServiceImpl) GetActivity(ctx context.Context, end time.Time) (*domain.Activity, error) {
	row, err := a.repo.GetActivityByEnd(ctx, end)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.NewNotFoundError("activity ending at", sqlite.FormatTimeForDB(end))
	}
	return a.mapper.Activity.FromDatabase(row), nil
}

// ListActivities returns activities ordered by end time, limited to those
// ending inside timeRange when it is set.
func (a *activityServiceImpl) ListActivities(ctx context.Context, timeRange *TimeRange) ([]*domain.Activity, error) {
	rows, err := a.repo.GetAllActivities(ctx)
	if err != nil {
		return nil, err
	}

	activities := a.mapper.Activity.FromDatabaseSlice(rows)
	if timeRange == nil {
		return activities, nil
	}

	filtered := make([]*domain.Activity, 0, len(activities))
	for _, activity := range activities {
		if timeRange.Contains(activity.EndTime) {
			filtered = append(filtered, activity)
		}
	}
	return filtered, nil
}

// LastActivity returns the most recently ended activity, or nil.
func (a *activityServiceImpl) LastActivity(ctx context.Context) (*domain.Activity, error) {
	row, err := a.repo.GetLastActivity(ctx)
	if err != nil {
		return nil, err
	}
	return a.mapper.Activity.FromDatabase(row), nil
}
