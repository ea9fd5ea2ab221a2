package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LastfmSession is the linked Last.fm account.
type LastfmSession struct {
	Username   string
	SessionKey string
	LinkedAt   time.Time
}

const (
	selectLastfmSession = `SELECT username, session_key, linked_at FROM lastfm_session WHERE id = 1`

	upsertLastfmSession = `
		INSERT INTO lastfm_session (id, username, session_key, linked_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			session_key = excluded.session_key,
			linked_at = excluded.linked_at`

	deleteLastfmSession = `DELETE FROM lastfm_session`
)

// GetLastfmSession returns the linked account, or nil when none is linked.
func (m *Manager) GetLastfmSession() (*LastfmSession, error) {
	var (
		s      LastfmSession
		linked int64
	)
	err := m.db.QueryRow(selectLastfmSession).Scan(&s.Username, &s.SessionKey, &linked)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil //nolint:nilnil // not linked
	case err != nil:
		return nil, fmt.Errorf("read lastfm session: %w", err)
	}
	s.LinkedAt = time.Unix(linked, 0)
	return &s, nil
}

// SaveLastfmSession links an account, replacing any previous one.
func (m *Manager) SaveLastfmSession(username, sessionKey string) error {
	if _, err := m.db.Exec(upsertLastfmSession, username, sessionKey, time.Now().Unix()); err != nil {
		return fmt.Errorf("save lastfm session: %w", err)
	}
	return nil
}

// ClearLastfmSession unlinks the stored account. It is a no-op when none is linked.
func (m *Manager) ClearLastfmSession() error {
	if _, err := m.db.Exec(deleteLastfmSession); err != nil {
		return fmt.Errorf("clear lastfm session: %w", err)
	}
	return nil
}
