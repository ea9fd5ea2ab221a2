package state

import (
	"database/sql"
	"errors"
	"fmt"
)

// VolumeState represents the saved volume. PreMute is the level restored
// when Muted is cleared.
type VolumeState struct {
	Volume  float64
	Muted   bool
	PreMute float64
}

// GetVolume returns the saved volume, or nil if none was saved.
func (m *Manager) GetVolume() (*VolumeState, error) {
	var v VolumeState
	err := m.db.QueryRow(`SELECT volume, muted, pre_mute FROM player_volume WHERE id = 1`).
		Scan(&v.Volume, &v.Muted, &v.PreMute)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil //nolint:nilnil // nothing saved yet
	case err != nil:
		return nil, fmt.Errorf("read volume: %w", err)
	}
	return &v, nil
}

// SaveVolume writes v immediately.
func (m *Manager) SaveVolume(v VolumeState) error {
	_, err := m.db.Exec(`
		INSERT INTO player_volume (id, volume, muted, pre_mute) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume, muted = excluded.muted, pre_mute = excluded.pre_mute`,
		v.Volume, v.Muted, v.PreMute)
	if err != nil {
		return fmt.Errorf("save volume: %w", err)
	}
	return nil
}
