package queuepanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/samber/lo"

	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const emptyHint = "Queue is empty. Press a to add a song, o to play one."

// View renders the queue panel.
func (m Model) View() string {
	if m.Width() <= ui.BorderSize || m.Height() <= ui.PanelOverhead {
		return ""
	}

	innerWidth := m.Width() - ui.BorderSize
	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderTrackList(innerWidth, m.listHeight())

	return styles.PanelStyle(m.IsFocused()).
		Width(innerWidth).
		Render(content)
}

func (m Model) renderHeader(width int) string {
	t := styles.T().S()
	left := fmt.Sprintf("Queue (%d/%d)", max(m.playing+1, 0), len(m.tracks))

	total := lo.SumBy(m.tracks, func(tr playlist.Track) time.Duration {
		return tr.DurationHint
	})
	right := english.Plural(len(m.tracks), "track", "") + " · " + playerbar.FormatDuration(total)

	return render.Row(t.Title.Render(left), t.Muted.Render(right), width)
}

func (m Model) renderTrackList(width, height int) string {
	t := styles.T().S()
	lines := make([]string, 0, height)

	if len(m.tracks) == 0 && height > 0 {
		lines = append(lines, t.Subtle.Render(render.TruncateAndPad(emptyHint, width)))
	}

	start, end := m.cursor.VisibleRange(len(m.tracks), height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTrackLine(m.tracks[i], i, width))
	}
	for len(lines) < height {
		lines = append(lines, render.EmptyLine(width))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine lays out marker, title and artist columns, and duration.
func (m Model) renderTrackLine(tr playlist.Track, idx, width int) string {
	marker := icons.CurrentMarker()
	prefix := strings.Repeat(" ", lipgloss.Width(marker))
	if idx == m.playing {
		prefix = marker
	}
	dur := " " + playerbar.FormatDuration(tr.DurationHint)

	contentWidth := max(width-lipgloss.Width(prefix)-lipgloss.Width(dur), 0)
	titleWidth := contentWidth / 2
	artistWidth := contentWidth - titleWidth

	line := prefix +
		render.TruncateAndPad(icons.FormatTrack(tr.DisplayTitle()), titleWidth) +
		render.TruncateAndPad(tr.DisplayArtist(), artistWidth) +
		dur

	return m.trackStyle(idx).Render(line)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	t := styles.T().S()
	isCursor := idx == m.cursor.Pos() && m.IsFocused()
	isPlaying := idx == m.playing
	isPlayed := m.playing >= 0 && idx < m.playing

	switch {
	case isCursor && isPlaying:
		return t.Cursor.Inherit(t.Playing)
	case isCursor && isPlayed:
		return t.Cursor.Inherit(t.Subtle)
	case isCursor:
		return t.Cursor
	case isPlaying:
		return t.Playing
	case isPlayed:
		return t.Muted
	default:
		return t.Base
	}
}
