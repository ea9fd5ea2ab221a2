package state

import (
	"database/sql"
	"fmt"

	dbutil "github.com/llehouerou/wavestream/internal/db"
)

// migrations[i] moves the schema from version i to i+1. Append only.
var migrations = []string{
	`
	CREATE TABLE player_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_index INTEGER NOT NULL DEFAULT -1,
		volume REAL NOT NULL DEFAULT 1,
		shuffle INTEGER NOT NULL DEFAULT 0,
		repeat_mode TEXT NOT NULL DEFAULT 'none',
		is_playing INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		source_ref TEXT,
		saved_at INTEGER NOT NULL,
		current_id TEXT,
		current_title TEXT,
		current_artist TEXT,
		current_cover TEXT,
		current_audio TEXT,
		current_duration_ms INTEGER
	);
	CREATE TABLE queue_tracks (
		position INTEGER PRIMARY KEY,
		track_id TEXT NOT NULL,
		title TEXT,
		artist TEXT,
		cover_ref TEXT,
		audio_ref TEXT,
		duration_ms INTEGER
	);
	CREATE TABLE player_volume (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		volume REAL NOT NULL DEFAULT 1,
		muted INTEGER NOT NULL DEFAULT 0,
		pre_mute REAL NOT NULL DEFAULT 1
	);
	CREATE TABLE lastfm_session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		username TEXT NOT NULL,
		session_key TEXT NOT NULL,
		linked_at INTEGER NOT NULL
	);`,
}

// initSchema brings the database up to the latest schema version.
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("state database is at schema %d, newer than this build (%d)", version, len(migrations))
	}
	for v := version; v < len(migrations); v++ {
		err := dbutil.WithTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(migrations[v]); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v+1)
			return err
		})
		if err != nil {
			return fmt.Errorf("migrate schema to %d: %w", v+1, err)
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
