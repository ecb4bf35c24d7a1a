package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanActivity scans end_time, start_time, task.
func ScanActivity(scanner Scanner) (*Activity, error) {
	var endTime, startTime string
	activity := &Activity{}

	if err := scanner.Scan(&endTime, &startTime, &activity.Task); err != nil {
		return nil, err
	}

	var err error
	if activity.EndTime, err = ParseTimeFromDB(endTime); err != nil {
		return nil, fmt.Errorf("parse end_time %q: %w", endTime, err)
	}
	if activity.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, fmt.Errorf("parse start_time %q: %w", startTime, err)
	}
	return activity, nil
}

// ScanActivities scans multiple activities from database rows
func ScanActivities(rows Rows) ([]*Activity, error) {
	return scanAll(rows, ScanActivity)
}

// ScanRecentInput scans text, pinned, last_used, sort_order, tags.
func ScanRecentInput(scanner Scanner) (*RecentInput, error) {
	item := &RecentInput{}
	var tags sql.NullString

	if err := scanner.Scan(&item.Text, &item.Pinned, &item.LastUsed, &item.Order, &tags); err != nil {
		return nil, err
	}

	item.Tags = []string{}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &item.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %q: %w", item.Text, err)
		}
	}
	return item, nil
}

// ScanRecentInputs scans multiple recent inputs from database rows
func ScanRecentInputs(rows Rows) ([]*RecentInput, error) {
	return scanAll(rows, ScanRecentInput)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	results := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
