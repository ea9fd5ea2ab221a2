package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return styles.PanelStyle(false)
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func artistStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func modeStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func timeStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func filledStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func emptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}
