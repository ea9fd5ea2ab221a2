package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
	"github.com/llehouerou/wavestream/internal/ui/slider"
)

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.queue.Scroll(-1)
		case tea.MouseButtonWheelDown:
			m.queue.Scroll(1)
		case tea.MouseButtonLeft:
			m.syncSliderBounds()
			if !m.seek.Press(msg.X, msg.Y) {
				m.volume.Press(msg.X, msg.Y)
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		m.seek.Motion(msg.X)
		m.volume.Motion(msg.X)
		return m, nil

	case tea.MouseActionRelease:
		if f, ok := m.seek.Release(msg.X); ok {
			return m, m.run(errmsg.OpPlaybackSeek, m.svc.SeekFraction(f))
		}
		if f, ok := m.volume.Release(msg.X); ok {
			return m, m.run(errmsg.OpPlaybackVolume, m.svc.SetVolume(f))
		}
	}
	return m, nil
}

// syncSliderBounds places the sliders over the bars of the current layout.
func (m *Model) syncSliderBounds() {
	l := playerbar.LayoutFor(m.barState(), m.Width)
	y := m.barTop() + playerbar.ContentRow
	m.seek.SetBounds(slider.Bounds{X: l.SeekX, Y: y, Width: l.SeekWidth})
	m.volume.SetBounds(slider.Bounds{X: l.VolumeX, Y: y, Width: l.VolumeWidth})
}

func (m Model) barTop() int {
	return m.Height - playerbar.Height()
}

// barState is the player bar content, with dragged values shown in place
// of the engine's while a drag is in progress.
func (m Model) barState() playerbar.State {
	s := playerbar.NewState(m.snap)
	s.Liked = m.currentLiked()
	if m.seek.Dragging() {
		s.Position = time.Duration(m.seek.Display(0) * float64(s.Duration))
	}
	s.Volume = m.volume.Display(s.Volume)
	return s
}
