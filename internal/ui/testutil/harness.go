package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/ui/popup"
)

// Harness owns a popup, feeds it input and runs every command it returns,
// keeping the resulting messages.
type Harness struct {
	popup popup.Popup
	msgs  []tea.Msg
}

// NewHarness runs p's Init command and returns a harness around it.
func NewHarness(p popup.Popup) *Harness {
	h := &Harness{popup: p}
	h.run(p.Init())
	return h
}

// Popup returns the popup as last returned by Update.
func (h *Harness) Popup() popup.Popup { return h.popup }

// Send delivers msg to the popup.
func (h *Harness) Send(msg tea.Msg) *Harness {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	h.run(cmd)
	return h
}

// Press delivers each key in order. See Key for the accepted names.
func (h *Harness) Press(keys ...string) *Harness {
	for _, k := range keys {
		h.Send(Key(k))
	}
	return h
}

// Msgs returns the messages produced so far, oldest first.
func (h *Harness) Msgs() []tea.Msg { return h.msgs }

// LastMsg returns the most recent message, or nil.
func (h *Harness) LastMsg() tea.Msg {
	if len(h.msgs) == 0 {
		return nil
	}
	return h.msgs[len(h.msgs)-1]
}

// Plain returns the popup view without styling.
func (h *Harness) Plain() string { return Plain(h.popup.View()) }

func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		h.msgs = append(h.msgs, msg)
	}
}
