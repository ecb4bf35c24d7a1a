package sqlite

import (
	"context"

	"activity-tracker/internal/errors"
)

const recentColumns = `text, pinned, last_used, sort_order, tags`

// GetAllRecent returns every recent input in key order. Ranking is the
// caller's business.
func (r *SQLiteRepository) GetAllRecent(ctx context.Context) ([]*RecentInput, error) {
	return WithTransaction(ctx, r.db, TableRecentInputs, ReadOnly, func(s *Scope) ([]*RecentInput, error) {
		query := `SELECT ` + recentColumns + ` FROM recent_inputs ORDER BY text ASC`
		return QueryMultiple(ctx, s, query, ScanRecentInputs, "recent inputs")
	})
}

// GetRecent returns the recent input for text, or nil.
func (r *SQLiteRepository) GetRecent(ctx context.Context, text string) (*RecentInput, error) {
	if text == "" {
		return nil, nil
	}
	return WithTransaction(ctx, r.db, TableRecentInputs, ReadOnly, func(s *Scope) (*RecentInput, error) {
		return recentByText(ctx, s, text)
	})
}

// UpsertRecent writes the record for text with lastUsed set to now. Fields
// the overrides leave unset keep their stored values; a new record starts
// unpinned with no order and no tags. The read and the write share one
// transaction.
func (r *SQLiteRepository) UpsertRecent(ctx context.Context, text string, overrides RecentOverrides) (bool, error) {
	return WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (bool, error) {
		existing, err := recentByText(ctx, s, text)
		if err != nil {
			return false, err
		}

		item := existing
		if item == nil {
			item = &RecentInput{Text: text, Tags: []string{}}
		}
		item.Text = text
		item.LastUsed = FormatMillisForDB(timeNow())
		overrides.apply(item)

		if err := putRecent(ctx, s, item); err != nil {
			return false, err
		}
		return true, nil
	})
}

// SetRecentPinned sets the pinned flag without reordering. A missing record
// is created with lastUsed set to now.
func (r *SQLiteRepository) SetRecentPinned(ctx context.Context, text string, pinned bool) error {
	_, err := WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (struct{}, error) {
		item, err := recentByText(ctx, s, text)
		if err != nil {
			return struct{}{}, err
		}
		if item == nil {
			item = &RecentInput{Text: text, LastUsed: FormatMillisForDB(timeNow()), Tags: []string{}}
		}
		item.Pinned = pinned
		return struct{}{}, putRecent(ctx, s, item)
	})
	return err
}

// DeleteRecent deletes the record for text. An empty text returns false.
func (r *SQLiteRepository) DeleteRecent(ctx context.Context, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	return WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (bool, error) {
		_, err := ExecuteInScope(ctx, s, "delete recent input", `DELETE FROM recent_inputs WHERE text = ?`, text)
		return err == nil, err
	})
}

// PutRecentItems writes all items in one transaction; either every item is
// stored or none is.
func (r *SQLiteRepository) PutRecentItems(ctx context.Context, items []*RecentInput) error {
	_, err := WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (struct{}, error) {
		for _, item := range items {
			if err := putRecent(ctx, s, item); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	return err
}

// DeleteRecentItems deletes every listed text in one transaction and
// returns how many rows went away.
func (r *SQLiteRepository) DeleteRecentItems(ctx context.Context, texts []string) (int, error) {
	return WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (int, error) {
		deleted := 0
		for _, text := range texts {
			result, err := ExecuteInScope(ctx, s, "delete recent input", `DELETE FROM recent_inputs WHERE text = ?`, text)
			if err != nil {
				return 0, err
			}
			n, err := result.RowsAffected()
			if err != nil {
				return 0, HandleDatabaseError("get rows affected", err)
			}
			deleted += int(n)
		}
		return deleted, nil
	})
}

// RenameRecent moves the record for oldText to newText, keeping every other
// field. The old record must exist and the new key must be free.
func (r *SQLiteRepository) RenameRecent(ctx context.Context, oldText, newText string) error {
	_, err := WithTransaction(ctx, r.db, TableRecentInputs, ReadWrite, func(s *Scope) (struct{}, error) {
		item, err := recentByText(ctx, s, oldText)
		if err != nil {
			return struct{}{}, err
		}
		if item == nil {
			return struct{}{}, errors.NewNotFoundError("recent item", oldText)
		}
		if oldText == newText {
			return struct{}{}, nil
		}

		taken, err := recentByText(ctx, s, newText)
		if err != nil {
			return struct{}{}, err
		}
		if taken != nil {
			return struct{}{}, errors.NewConflictError("recent item", newText)
		}

		if _, err := ExecuteInScope(ctx, s, "delete recent input", `DELETE FROM recent_inputs WHERE text = ?`, oldText); err != nil {
			return struct{}{}, err
		}
		item.Text = newText
		return struct{}{}, putRecent(ctx, s, item)
	})
	return err
}

func recentByText(ctx context.Context, s *Scope, text string) (*RecentInput, error) {
	query := `SELECT ` + recentColumns + ` FROM recent_inputs WHERE text = ?`
	return QueryOptional(ctx, s, query, ScanRecentInput, "recent input", text)
}

func putRecent(ctx context.Context, s *Scope, item *RecentInput) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return HandleDatabaseError("encode tags", err)
	}

	var order interface{}
	if item.Order.Valid {
		order = item.Order.Int64
	}

	query := `
	INSERT INTO recent_inputs (text, pinned, last_used, sort_order, tags)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(text) DO UPDATE SET
		pinned = excluded.pinned,
		last_used = excluded.last_used,
		sort_order = excluded.sort_order,
		tags = excluded.tags`
	_, err = ExecuteInScope(ctx, s, "put recent input", query,
		item.Text, item.Pinned, item.LastUsed, order, tags)
	return err
}

