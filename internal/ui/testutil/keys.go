// Package testutil drives UI components from tests the way a terminal
// would.
package testutil

import tea "github.com/charmbracelet/bubbletea"

var namedKeys = map[string]tea.KeyType{
	"enter":      tea.KeyEnter,
	"esc":        tea.KeyEsc,
	"tab":        tea.KeyTab,
	"up":         tea.KeyUp,
	"down":       tea.KeyDown,
	"left":       tea.KeyLeft,
	"right":      tea.KeyRight,
	"home":       tea.KeyHome,
	"end":        tea.KeyEnd,
	"pgup":       tea.KeyPgUp,
	"pgdown":     tea.KeyPgDown,
	"delete":     tea.KeyDelete,
	"shift+up":   tea.KeyShiftUp,
	"shift+down": tea.KeyShiftDown,
	"ctrl+c":     tea.KeyCtrlC,
	"ctrl+d":     tea.KeyCtrlD,
	"ctrl+u":     tea.KeyCtrlU,
}

// Key returns the message a terminal produces for name. Names use the
// same spelling as tea.KeyMsg.String; anything else is typed as runes.
func Key(name string) tea.KeyMsg {
	if name == " " || name == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
