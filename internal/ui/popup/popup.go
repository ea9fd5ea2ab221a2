package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/wavestream/internal/ui/styles"
)

// SizeConfig defines how a popup is sized on screen.
type SizeConfig struct {
	WidthPct  int // percentage of screen width, 0 fits the content
	HeightPct int // percentage of screen height, 0 fits the content
	MaxWidth  int // 0 = no limit
}

// SizeAuto fits the popup to its content.
var SizeAuto = SizeConfig{}

// border and padding around popup content, per axis
const (
	frameWidth  = 6
	frameHeight = 4
)

// Center places content in the middle of a screenW x screenH area. The
// surrounding cells are spaces, which Compose treats as transparent.
func Center(content string, screenW, screenH int) string {
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, content)
}

// RenderBordered wraps content in a rounded border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := dimensions(content, screenW, screenH, size)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border).
		Width(width-2).
		Height(height-2).
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

func dimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW * size.WidthPct / 100, screenH * size.HeightPct / 100
	}
	width = lipgloss.Width(content) + frameWidth
	if size.MaxWidth > 0 {
		width = min(width, size.MaxWidth)
	}
	height = lipgloss.Height(content) + frameHeight
	return min(width, screenW-4), min(height, screenH-4)
}

// Compose draws overlay on top of base. On each overlay line the span from
// the first to the last visible non-space cell replaces the base cells
// underneath; everything else shows the base.
func Compose(base, overlay string, width, _ int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(overlay, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		trimmed := strings.TrimLeft(plain, " ")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		start := len(plain) - len(trimmed)
		end := start + ansi.StringWidth(strings.TrimRight(trimmed, " "))

		under := baseLines[i]
		if w := ansi.StringWidth(under); w < width {
			under += strings.Repeat(" ", width-w)
		}

		left := ansi.Cut(under, 0, start)
		left += strings.Repeat(" ", start-ansi.StringWidth(left))
		composed := left + ansi.Cut(line, start, end)
		if end < width {
			right := ansi.Cut(under, end, width)
			composed += strings.Repeat(" ", max(width-end-ansi.StringWidth(right), 0)) + right
		}
		baseLines[i] = composed
	}

	return strings.Join(baseLines, "\n")
}
