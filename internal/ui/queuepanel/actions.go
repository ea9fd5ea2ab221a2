package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/ui/action"
)

// Source is the action source name of the queue panel.
const Source = "queuepanel"

// JumpToTrack requests playback of the entry at Index.
type JumpToTrack struct {
	Index int
}

// ActionType implements action.Action.
func (a JumpToTrack) ActionType() string { return "queuepanel.jump_to_track" }

// Dequeue requests removal of the entry at Index.
type Dequeue struct {
	Index int
}

// ActionType implements action.Action.
func (a Dequeue) ActionType() string { return "queuepanel.dequeue" }

// Move requests moving the entry at From to To.
type Move struct {
	From, To int
}

// ActionType implements action.Action.
func (a Move) ActionType() string { return "queuepanel.move" }

func emit(a action.Action) tea.Cmd {
	return func() tea.Msg {
		return action.Msg{Source: Source, Action: a}
	}
}
