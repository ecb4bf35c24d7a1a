package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/logging"
	"activity-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Logical table names. They are the names collaborators pass to WithTransaction.
const (
	TableActivities   = "activities"
	TableRecentInputs = "recentInputs"
)

// sqlTables maps a logical table name to its SQLite table.
var sqlTables = map[string]string{
	TableActivities:   "activities",
	TableRecentInputs: "recent_inputs",
}

// Mode selects whether a transaction may write.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "readwrite"
	}
	return "read"
}

// DB owns the single SQLite connection. Stores borrow it and open one
// short transaction per call.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and brings the schema up to
// date. Opening an existing, current database changes nothing.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	logging.Debugf("opened database %s\n", path)
	return &DB{db: db, path: path}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Version returns the schema version, the highest applied migration.
func (d *DB) Version(ctx context.Context) (int, error) {
	version, err := migrations.CurrentVersion(d.db)
	if err != nil {
		return 0, errors.NewDatabaseError("read schema version", err)
	}
	return version, nil
}

// Scope is the accessor handed to a transaction operation. It is bound to
// one table and one mode and is only valid inside the operation.
type Scope struct {
	tx    *sql.Tx
	table string
	mode  Mode
}

// Table returns the SQLite name of the scoped table.
func (s *Scope) Table() string {
	return sqlTables[s.table]
}

// Mode returns the transaction mode.
func (s *Scope) Mode() Mode {
	return s.mode
}

// ExecContext runs a write statement. It fails on a read-only scope.
func (s *Scope) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if s.mode != ReadWrite {
		return nil, errors.NewDatabaseError("write to "+s.table,
			fmt.Errorf("transaction on %s is %s", s.table, s.mode))
	}
	return s.tx.ExecContext(ctx, query, args...)
}

// QueryContext runs a query inside the transaction.
func (s *Scope) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query inside the transaction.
func (s *Scope) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.tx.QueryRowContext(ctx, query, args...)
}

// WithTransaction runs op inside one transaction scoped to table and returns
// op's result once the transaction has committed. If op fails, or the commit
// fails, every write made through the scope is rolled back and the error is
// returned.
func WithTransaction[T any](ctx context.Context, db *DB, table string, mode Mode, op func(*Scope) (T, error)) (T, error) {
	var zero T

	if _, ok := sqlTables[table]; !ok {
		return zero, errors.NewInvalidInputError("table", table, "unknown table")
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, errors.NewDatabaseError("begin "+mode.String()+" transaction on "+table, err)
	}
	// Rollback after a successful commit is a no-op; on panic it releases the tx.
	defer tx.Rollback()

	result, err := op(&Scope{tx: tx, table: table, mode: mode})
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, errors.NewDatabaseError("commit transaction on "+table, err)
	}
	return result, nil
}
