// Package sqlite implements task and preference storage on SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskshelf/internal/prefs"
	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "taskshelf.db"

// Backend owns the SQLite connection and the table accessors built on it.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      zerolog.Logger

	tasks *TasksTable
	prefs *prefs.Store
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens (or creates) the database in config.DataDir, applies the
// schema, and loads preferences into memory.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// A single connection serialises writers and keeps the in-memory
	// preference cache consistent with the table.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	initial, err := loadPreferences(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("loading preferences: %w", err)
	}

	config.DataDir = dataDir
	b.config = config
	b.db = db
	b.tasks = &TasksTable{backend: b}
	b.prefs = prefs.New(initial, persistPreferences(db))
	b.attached = true

	b.log.Debug().Str("path", dbPath).Int("preferences", len(initial)).Msg("attached")
	return nil
}

// Detach closes the database. It is idempotent. After Detach, table
// operations return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.tasks = nil
	b.prefs = nil

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.db = nil
	b.log.Debug().Msg("detached")
	return nil
}

// DataDir returns the resolved data directory of the attached backend.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// Tasks returns the task table accessor.
func (b *Backend) Tasks() (*TasksTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.tasks, nil
}

// Preferences returns the preference store backed by the preferences table.
func (b *Backend) Preferences() (types.Preferences, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.prefs, nil
}

// newUUID generates a UUID v7 for entity IDs.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
