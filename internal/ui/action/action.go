// Package action carries requests from UI components up to the root model.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is a request raised by a component. ActionType names it in logs.
type Action interface {
	ActionType() string
}

// Msg delivers an Action from the named component.
type Msg struct {
	Source string
	Action Action
}

var _ tea.Msg = Msg{}
