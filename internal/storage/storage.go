// Package storage persists whole task stores, either as a single YAML
// document or as a SQLite database.
package storage

import (
	"errors"
	"os"
	"path/filepath"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/task"
)

// Backend names a storage implementation.
type Backend string

const (
	BackendYAML   Backend = "yaml"
	BackendSQLite Backend = "sqlite"
)

const (
	yamlFile   = "store.yaml"
	sqliteFile = "agenda.db"
)

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	return b == BackendYAML || b == BackendSQLite
}

// Persister is a store backend rooted at a data directory.
type Persister interface {
	Load() (*task.Store, error)
	Save(store *task.Store) error
	Init(force bool) error
	IsInitialized() bool
	Path() string
	Close() error
}

// New returns the persister for backend rooted at dir.
func New(backend Backend, dir string) (Persister, error) {
	switch backend {
	case BackendYAML, "":
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, sqliteFile)), nil
	default:
		return nil, agendaerrors.UnknownBackendError{Name: string(backend)}
	}
}

// FileStore keeps the whole store in one YAML file.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the store file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, yamlFile)
}

// IsInitialized checks if the store file exists.
func (s *FileStore) IsInitialized() bool {
	info, err := os.Stat(s.Path())
	return err == nil && !info.IsDir()
}

// Init creates the data directory and an empty store file.
func (s *FileStore) Init(force bool) error {
	if s.IsInitialized() && !force {
		return agendaerrors.AlreadyInitializedError{Path: s.Path()}
	}
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return s.Save(task.NewStore())
}

// Load reads and decodes the store file.
func (s *FileStore) Load() (*task.Store, error) {
	content, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, agendaerrors.NotInitializedError{Path: s.Path()}
	}
	if err != nil {
		return nil, err
	}

	store, err := DecodeYAML(content)
	if err != nil {
		return nil, ParseError{Path: s.Path(), Msg: err.Error()}
	}
	return store, nil
}

// Save writes the store atomically: a temp file in the same directory is
// renamed over the old one.
func (s *FileStore) Save(store *task.Store) error {
	if _, err := os.Stat(s.dir); err != nil {
		return agendaerrors.NotInitializedError{Path: s.Path()}
	}
	content, err := EncodeYAML(store)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, yamlFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}

// Close is a no-op; the file is not held open.
func (s *FileStore) Close() error {
	return nil
}
