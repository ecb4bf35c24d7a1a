// Package settings keeps user preferences and the seed marker in flat
// storage, outside the database.
package settings

import (
	"encoding/json"
	"strings"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/logging"
)

const (
	// SettingsKey holds the settings JSON object.
	SettingsKey = "activityTracker.settings"
	// SeedFlagKey records that the default pinned items were inserted.
	// Bumping the version suffix makes every install seed again.
	SeedFlagKey = "activityTracker.seededDefaults.v1"

	seededValue = "1"
)

// Settings is the persisted preference record.
type Settings struct {
	// TicketURLTemplate contains an {id} placeholder. Empty disables
	// ticket links.
	TicketURLTemplate string `json:"ticketUrlTemplate"`
}

// Normalize returns s with surrounding whitespace removed.
func (s Settings) Normalize() Settings {
	return Settings{TicketURLTemplate: strings.TrimSpace(s.TicketURLTemplate)}
}

// KV is the flat storage the store reads and writes.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store loads and saves settings.
type Store struct {
	kv KV
}

// NewStore returns a store over kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored settings. A missing, unreadable or malformed
// record yields the defaults; the problem is logged, never returned.
func (s *Store) Load() Settings {
	raw, ok, err := s.kv.Get(SettingsKey)
	if err != nil {
		logging.Debugf("settings: read failed, using defaults: %v\n", err)
		return Settings{}
	}
	if !ok {
		return Settings{}
	}

	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		logging.Debugf("settings: malformed record, using defaults: %v\n", err)
		return Settings{}
	}
	return settings.Normalize()
}

// Save writes the normalized settings.
func (s *Store) Save(settings Settings) error {
	data, err := json.Marshal(settings.Normalize())
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeInvalidInput, "encode settings")
	}
	return s.kv.Set(SettingsKey, string(data))
}

// Seeded reports whether default items were already inserted. A read
// failure counts as not seeded; seeding is idempotent.
func (s *Store) Seeded() bool {
	value, ok, err := s.kv.Get(SeedFlagKey)
	if err != nil {
		logging.Debugf("settings: seed flag unreadable: %v\n", err)
		return false
	}
	return ok && value == seededValue
}

// MarkSeeded sets the seed flag.
func (s *Store) MarkSeeded() error {
	return s.kv.Set(SeedFlagKey, seededValue)
}
