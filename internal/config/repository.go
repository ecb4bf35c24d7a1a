package config

import (
	"context"
	"fmt"
	"os"

	"activity-tracker/internal/repository/sqlite"
)

// CreateRepository opens the database named by the configuration, creating
// its directory on first use.
func CreateRepository(ctx context.Context, config *Config) (*sqlite.SQLiteRepository, error) {
	dbPath := config.GetDatabasePath()
	if dbPath != ":memory:" {
		if err := os.MkdirAll(config.Database.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context) (*sqlite.SQLiteRepository, error) {
	repo, err := sqlite.New(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
