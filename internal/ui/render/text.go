// Package render provides width-aware text helpers for the terminal views.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// Sanitize drops invalid UTF-8 and control characters (tab excepted) and
// turns non-breaking spaces into plain ones. Catalog metadata is rendered
// as-is otherwise.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case r != '\t' && unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// Truncate sanitizes s and cuts it to maxWidth cells, ending with "..."
// when something was cut and there is room for it.
func Truncate(s string, maxWidth int) string {
	s = Sanitize(s)
	if maxWidth < len(ellipsis) {
		return runewidth.Truncate(s, max(maxWidth, 0), "")
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// Pad right-fills s with spaces up to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad returns s laid out in exactly width cells.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row places left and right at the edges of a width-cell line, keeping at
// least one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator is a horizontal rule width cells long.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// EmptyLine is width cells of blank space.
func EmptyLine(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
