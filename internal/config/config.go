package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for the activity tracker
type Config struct {
	Database    DatabaseConfig
	Storage     StorageConfig
	Recent      RecentConfig
	Validation  ValidationConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir          string        `mapstructure:"dir"`
	Filename     string        `mapstructure:"filename"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// StorageConfig locates the flat key/value store used for settings and
// the seed flag.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// RecentConfig controls the recent-item list.
type RecentConfig struct {
	// Retention is how many unpinned items survive trimming.
	Retention int `mapstructure:"retention"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskNameMaxLength int           `mapstructure:"task_name_max"`
	MaxDuration       time.Duration `mapstructure:"max_duration"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Verbose bool          `mapstructure:"verbose"`
}

// DefaultDir returns ~/.trk, or ".trk" when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trk"
	}
	return filepath.Join(homeDir, ".trk")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	dir := DefaultDir()

	return &Config{
		Database: DatabaseConfig{
			Dir:          dir,
			Filename:     "activity.db",
			QueryTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(dir, "local"),
		},
		Recent: RecentConfig{
			Retention: 20,
		},
		Validation: ValidationConfig{
			TaskNameMaxLength: 255,
			MaxDuration:       24 * time.Hour,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "db.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "db.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "db.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Recent.Retention < 0 {
		return &ConfigError{Field: "recent.retention", Message: "retention cannot be negative"}
	}
	if c.Validation.TaskNameMaxLength < 1 {
		return &ConfigError{Field: "validation.task_name_max", Message: "task name maximum length must be at least 1"}
	}
	if c.Validation.MaxDuration <= 0 {
		return &ConfigError{Field: "validation.max_duration", Message: "max duration must be positive"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "app.timeout", Message: "application timeout must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
