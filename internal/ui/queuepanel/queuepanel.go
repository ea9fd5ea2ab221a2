// Package queuepanel renders the play queue and turns list navigation into
// queue actions.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/cursor"
)

// Model represents the queue panel state. The queue itself is owned by the
// playback engine; the panel only holds the last snapshot it was given.
type Model struct {
	ui.Base
	cursor  cursor.Cursor
	tracks  []playlist.Track
	playing int
}

// New creates an empty queue panel.
func New() Model {
	return Model{
		cursor:  cursor.New(ui.ScrollMargin),
		playing: -1,
	}
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.EnsureVisible(len(m.tracks), m.listHeight())
}

// SetQueue replaces the displayed queue.
func (m *Model) SetQueue(tracks []playlist.Track, playing int) {
	m.tracks = tracks
	m.playing = playing
	m.cursor.ClampToBounds(len(tracks))
	m.cursor.EnsureVisible(len(tracks), m.listHeight())
}

// Cursor returns the selected queue position.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// Offset returns the first visible queue position.
func (m Model) Offset() int {
	return m.cursor.Offset()
}

// SyncCursor moves the cursor to the playing entry.
func (m *Model) SyncCursor() {
	if m.playing >= 0 && m.playing < len(m.tracks) {
		m.cursor.Jump(m.playing, len(m.tracks), m.listHeight())
	}
}

// Scroll moves the cursor by delta entries.
func (m *Model) Scroll(delta int) {
	m.cursor.Move(delta, len(m.tracks), m.listHeight())
}

// Update handles key messages for the queue panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}

	key := keyMsg.String()
	if m.cursor.HandleKey(key, len(m.tracks), m.listHeight()) {
		return m, nil
	}

	pos := m.cursor.Pos()
	switch key {
	case "enter":
		if pos < len(m.tracks) {
			return m, emit(JumpToTrack{Index: pos})
		}
	case "d", "delete":
		if pos < len(m.tracks) {
			return m, emit(Dequeue{Index: pos})
		}
	case "J", "shift+down":
		return m.moveSelected(1)
	case "K", "shift+up":
		return m.moveSelected(-1)
	}
	return m, nil
}

// moveSelected requests a move and lets the cursor follow the entry.
func (m Model) moveSelected(delta int) (Model, tea.Cmd) {
	from := m.cursor.Pos()
	to := from + delta
	if from >= len(m.tracks) || to < 0 || to >= len(m.tracks) {
		return m, nil
	}
	m.cursor.Jump(to, len(m.tracks), m.listHeight())
	return m, emit(Move{From: from, To: to})
}

func (m Model) listHeight() int {
	return m.ListHeight(ui.PanelOverhead)
}
