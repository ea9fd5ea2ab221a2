package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/popup"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

const statusHeight = 1

// View renders the application UI.
func (m Model) View() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	if q := m.queue.View(); q != "" {
		parts = append(parts, q)
	}
	parts = append(parts, m.renderStatus(), playerbar.Render(m.barState(), m.Width))
	base := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.showHelp {
		box := popup.RenderBordered(m.help.View(), m.Width, m.Height, popup.SizeAuto)
		return popup.Compose(base, box, m.Width, m.Height)
	}
	return base
}

func (m Model) queueHeight() int {
	return max(m.Height-statusHeight-playerbar.Height(), 0)
}

func (m Model) renderStatus() string {
	t := styles.T().S()
	switch m.prompt {
	case promptEnqueue:
		return t.Title.Render("Enqueue song ids: ") + m.promptInput.View()
	case promptPlay:
		return t.Title.Render("Play song id: ") + m.promptInput.View()
	}
	if m.status == "" {
		return render.EmptyLine(m.Width)
	}
	text := render.Truncate(m.status, m.Width)
	if m.statusLevel == statusError {
		return t.Error.Render(text)
	}
	return t.Muted.Render(text)
}
