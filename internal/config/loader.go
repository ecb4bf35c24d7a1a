package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "TRK"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	configDir  string
	configFile string
}

// NewLoader creates a loader that looks for config.yaml in the default directory.
func NewLoader() *Loader {
	return &Loader{configDir: DefaultDir()}
}

// NewLoaderWithDir creates a loader that looks for config.yaml in dir.
func NewLoaderWithDir(dir string) *Loader {
	return &Loader{configDir: dir}
}

// NewLoaderWithFile creates a loader that reads exactly the given file.
func NewLoaderWithFile(path string) *Loader {
	return &Loader{configDir: filepath.Dir(path), configFile: path}
}

// Load resolves configuration in this order, later sources winning:
// defaults, config.yaml, TRK_* environment variables. Flag overrides are
// applied by LoadWithOverrides.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(l.configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{
		Database: DatabaseConfig{
			Dir:          v.GetString("db.dir"),
			Filename:     v.GetString("db.filename"),
			QueryTimeout: v.GetDuration("db.query_timeout"),
		},
		Storage: StorageConfig{
			Dir: v.GetString("storage.dir"),
		},
		Recent: RecentConfig{
			Retention: v.GetInt("recent.retention"),
		},
		Validation: ValidationConfig{
			TaskNameMaxLength: v.GetInt("validation.task_name_max"),
			MaxDuration:       v.GetDuration("validation.max_duration"),
		},
		Application: ApplicationConfig{
			Timeout: v.GetDuration("app.timeout"),
			Verbose: v.GetBool("app.verbose"),
		},
	}

	// storage.dir has no default: unless placed explicitly, the flat store
	// lives next to the database, wherever db.dir came from.
	if config.Storage.Dir == "" {
		config.Storage.Dir = filepath.Join(config.Database.Dir, "local")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("db.dir", defaults.Database.Dir)
	v.SetDefault("db.filename", defaults.Database.Filename)
	v.SetDefault("db.query_timeout", defaults.Database.QueryTimeout)
	v.SetDefault("recent.retention", defaults.Recent.Retention)
	v.SetDefault("validation.task_name_max", defaults.Validation.TaskNameMaxLength)
	v.SetDefault("validation.max_duration", defaults.Validation.MaxDuration)
	v.SetDefault("app.timeout", defaults.Application.Timeout)
	v.SetDefault("app.verbose", defaults.Application.Verbose)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	StorageDir     *string
	Retention      *int
	Timeout        *time.Duration
	Verbose        *bool
}

func (o *ConfigOverrides) apply(config *Config) {
	if o.DBDir != nil {
		config.Database.Dir = *o.DBDir
		if o.StorageDir == nil {
			config.Storage.Dir = filepath.Join(*o.DBDir, "local")
		}
	}
	if o.DBFilename != nil {
		config.Database.Filename = *o.DBFilename
	}
	if o.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *o.DBQueryTimeout
	}
	if o.StorageDir != nil {
		config.Storage.Dir = *o.StorageDir
	}
	if o.Retention != nil {
		config.Recent.Retention = *o.Retention
	}
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
}
