// Package helpbindings shows the key bindings in a scrollable popup.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/keymap"
	"github.com/llehouerou/wavestream/internal/ui"
	"github.com/llehouerou/wavestream/internal/ui/popup"
	"github.com/llehouerou/wavestream/internal/ui/render"
	"github.com/llehouerou/wavestream/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// sections lists binding contexts in display order with their headings.
var sections = []struct {
	context string
	label   string
}{
	{"global", "Global"},
	{"playback", "Playback"},
	{"queue", "Queue"},
}

// chrome is the popup rows not available to bindings: title, blank lines,
// footer, border and padding.
const chrome = 10

// Model holds the state for the help popup.
type Model struct {
	ui.Base
	lines  []string
	scroll int
}

// New creates an empty help popup.
func New() Model {
	return Model{}
}

// SetContexts selects the binding contexts to list and resets scrolling.
// Sections always appear in the fixed display order.
func (m *Model) SetContexts(contexts []string) {
	t := styles.T().S()
	var bindings []keymap.Binding
	for _, s := range sections {
		if slices.Contains(contexts, s.context) {
			bindings = append(bindings, keymap.ByContext(s.context)...)
		}
	}
	keyWidth := 0
	for _, b := range bindings {
		keyWidth = max(keyWidth, lipgloss.Width(keyLabel(b.Keys)))
	}

	m.lines = m.lines[:0]
	for _, s := range sections {
		if !slices.Contains(contexts, s.context) {
			continue
		}
		if len(m.lines) > 0 {
			m.lines = append(m.lines, "")
		}
		m.lines = append(m.lines,
			t.Playing.Render(s.label),
			t.Subtle.Render(render.Separator(keyWidth+16)),
		)
		for _, b := range keymap.ByContext(s.context) {
			m.lines = append(m.lines,
				t.Title.Render(render.Pad(keyLabel(b.Keys), keyWidth))+"  "+t.Base.Render(b.Description))
		}
	}
	m.scroll = 0
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "j", "down":
		m.scroll = min(m.scroll+1, m.maxScroll())
	case "k", "up":
		m.scroll = max(m.scroll-1, 0)
	}
	return m, nil
}

// View implements popup.Popup. The border is added by the caller.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	end := min(m.scroll+m.visibleHeight(), len(m.lines))
	visible := m.lines[min(m.scroll, end):end]

	// Pad to the widest line overall so the popup keeps its size while scrolling.
	width := 0
	for _, l := range m.lines {
		width = max(width, lipgloss.Width(l))
	}
	body := make([]string, len(visible))
	for i, l := range visible {
		body[i] = l + strings.Repeat(" ", width-lipgloss.Width(l))
	}

	t := styles.T().S()
	return t.Title.Render("Help") + "\n\n" +
		strings.Join(body, "\n") + "\n\n" +
		t.Subtle.Render(m.footer())
}

func (m Model) footer() string {
	if m.maxScroll() == 0 {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m Model) visibleHeight() int {
	return max(m.Height()-chrome, 5)
}

func (m Model) maxScroll() int {
	return max(len(m.lines)-m.visibleHeight(), 0)
}

// keyLabel joins keys for display, naming the space bar.
func keyLabel(keys []string) string {
	named := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		named[i] = k
	}
	return strings.Join(named, ", ")
}
