// Package popup renders modal popups over the main view.
package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal component. The host draws the frame and centers it;
// View returns only the body.
type Popup interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Popup, tea.Cmd)
	View() string
	// SetSize gives the room available inside the frame.
	SetSize(width, height int)
}
