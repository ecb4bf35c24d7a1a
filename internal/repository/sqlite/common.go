package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"activity-tracker/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.NewDatabaseError(operation, err)
}

// ExecuteInScope runs a write statement through the scope.
func ExecuteInScope(ctx context.Context, scope *Scope, operation string, query string, args ...interface{}) (sql.Result, error) {
	result, err := scope.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, HandleDatabaseError(operation, err)
	}
	return result, nil
}

// QueryOptional executes a single-row query. A missing row yields (nil, nil).
func QueryOptional[T any](ctx context.Context, scope *Scope, query string, scanFunc func(Scanner) (*T, error), entityType string, args ...interface{}) (*T, error) {
	row := scope.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, HandleDatabaseError("scan "+entityType, err)
	}
	return result, nil
}

// QueryMultiple executes a query that returns multiple rows and scans them
func QueryMultiple[T any](ctx context.Context, scope *Scope, query string, scanFunc func(Rows) ([]*T, error), entityType string, args ...interface{}) ([]*T, error) {
	rows, err := scope.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	defer rows.Close()

	results, err := scanFunc(rows)
	if err != nil {
		return nil, HandleDatabaseError("scan "+entityType, err)
	}

	return results, nil
}
