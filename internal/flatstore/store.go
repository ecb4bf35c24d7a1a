// Package flatstore is a small string key/value store kept outside the
// database, one file per key.
package flatstore

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/logging"
)

// Store persists values under dir on fs.
type Store struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// New returns a store rooted at dir. The directory is created on first write.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// NewOS returns a store on the real filesystem.
func NewOS(dir string) *Store {
	return New(afero.NewOsFs(), dir)
}

// NewMemory returns a store that lives only as long as the process.
func NewMemory() *Store {
	return New(afero.NewMemMapFs(), "/")
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapError(err, errors.ErrorTypeDatabase, "read flat storage key "+key)
	}
	return string(data), true, nil
}

// Set writes value under key. The value is written to a temp file and
// renamed over the old one, so a reader never sees a partial value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "create flat storage directory")
	}

	target := s.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "write flat storage key "+key)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.WrapError(err, errors.ErrorTypeDatabase, "write flat storage key "+key)
	}

	logging.Debugf("flatstore: set %s (%d bytes)\n", key, len(value))
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "delete flat storage key "+key)
	}
	return nil
}

// Keys are hex-encoded so any string maps to a safe file name.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".val")
}
