package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle is the rounded border around a panel, highlighted when the
// panel has focus.
func PanelStyle(focused bool) lipgloss.Style {
	border := T().Border
	if focused {
		border = T().BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
