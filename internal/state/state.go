package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/wavestream/internal/db"
)

const (
	appName      = "wavestream"
	dbFileName   = "wavestream.db"
	saveDebounce = 500 * time.Millisecond
)

// Manager persists player state in SQLite. Snapshot writes are debounced;
// volume, session and explicit saves are written immediately.
type Manager struct {
	db *sql.DB

	// writeMu orders snapshot writes so an older debounced snapshot never
	// lands after a newer synchronous one.
	writeMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending *Snapshot
}

// Open opens or creates the state database at path, defaulting to the XDG
// data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The debounce timer and the engine share one writer.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newManager(db), nil
}

func newManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// DefaultPath returns the XDG location of the state database.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// takePending cancels the debounce timer and hands back the unsaved
// snapshot, if any.
func (m *Manager) takePending() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	p := m.pending
	m.pending = nil
	return p
}

func (m *Manager) flush() {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if p := m.takePending(); p != nil {
		if err := saveSnapshot(m.db, *p); err != nil {
			log.WithError(err).Warn("save player state")
		}
	}
}

// Close writes any pending snapshot and closes the database.
func (m *Manager) Close() error {
	m.flush()
	return m.db.Close()
}

// SaveSnapshot schedules a write of s. Calls within the debounce window
// collapse into one write of the latest snapshot.
func (m *Manager) SaveSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = &s
	if m.timer == nil {
		m.timer = time.AfterFunc(saveDebounce, m.flush)
		return
	}
	m.timer.Reset(saveDebounce)
}

// SaveSnapshotNow writes s at once, superseding any pending write.
func (m *Manager) SaveSnapshotNow(s Snapshot) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.takePending()
	return saveSnapshot(m.db, s)
}

// GetSnapshot returns the saved snapshot, or nil if nothing was saved.
func (m *Manager) GetSnapshot() (*Snapshot, error) {
	return getSnapshot(m.db)
}

// Clear drops the saved queue and transport state. Volume and the Last.fm
// session survive.
func (m *Manager) Clear() error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.takePending()
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		for _, table := range []string{"queue_tracks", "player_state"} {
			if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
				return err
			}
		}
		return nil
	})
}
