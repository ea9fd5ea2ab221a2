package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/keymap"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
)

var helpContexts = []string{"global", "playback", "queue"}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	if m.showHelp {
		var cmd tea.Cmd
		_, cmd = m.help.Update(msg)
		return m, cmd
	}

	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionCancel:
		m.seek.Cancel()
		m.volume.Cancel()
		return m, nil
	case keymap.ActionHelp:
		m.openHelp()
		return m, nil

	case keymap.ActionPlayPause:
		return m, m.run(errmsg.OpPlaybackStart, m.svc.TogglePlay())
	case keymap.ActionNextTrack:
		return m, m.run(errmsg.OpPlaybackAdvance, m.svc.Next())
	case keymap.ActionPrevTrack:
		return m, m.run(errmsg.OpPlaybackAdvance, m.svc.Previous())
	case keymap.ActionSeekBack:
		return m, m.run(errmsg.OpPlaybackSeek, m.svc.Seek(max(m.svc.Elapsed()-seekStep, 0)))
	case keymap.ActionSeekForward:
		return m, m.run(errmsg.OpPlaybackSeek, m.svc.Seek(m.svc.Elapsed()+seekStep))
	case keymap.ActionVolumeUp:
		return m, m.run(errmsg.OpPlaybackVolume, m.svc.SetVolume(m.svc.Volume()+volumeStep))
	case keymap.ActionVolumeDown:
		return m, m.run(errmsg.OpPlaybackVolume, m.svc.SetVolume(m.svc.Volume()-volumeStep))
	case keymap.ActionToggleMute:
		return m, m.run(errmsg.OpPlaybackVolume, m.svc.ToggleMute())
	case keymap.ActionToggleShuffle:
		m.svc.ToggleShuffle()
		m.refresh()
		return m, nil
	case keymap.ActionCycleRepeat:
		m.svc.CycleRepeat()
		m.refresh()
		return m, nil
	case keymap.ActionToggleLike:
		cur := m.snap.Current
		if cur == nil {
			return m, nil
		}
		return m, ToggleLikeCmd(m.ctx, m.liker, cur.ID, !m.currentLiked())

	case keymap.ActionEnqueuePrompt:
		return m, m.openPrompt(promptEnqueue)
	case keymap.ActionPlayPrompt:
		return m, m.openPrompt(promptPlay)

	case keymap.ActionClear:
		m.svc.ClearQueue()
		m.refresh()
		return m, nil
	case keymap.ActionUndo:
		m.svc.Undo()
		m.refresh()
		return m, nil
	case keymap.ActionRedo:
		m.svc.Redo()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

// run refreshes the displayed state after a synchronous engine command and
// reports its outcome.
func (m *Model) run(op errmsg.Op, err error) tea.Cmd {
	m.refresh()
	return m.reportCommand(op, err)
}

func (m *Model) openHelp() {
	m.help.SetContexts(helpContexts)
	m.help.SetSize(m.Width, m.Height)
	m.showHelp = true
}

func (m *Model) openPrompt(mode promptMode) tea.Cmd {
	m.prompt = mode
	m.promptInput.Reset()
	return m.promptInput.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		mode := m.prompt
		ids := strings.Fields(m.promptInput.Value())
		m.closePrompt()
		return m, m.submitIDs(mode, ids)
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptInput.Blur()
	m.promptInput.Reset()
}

// submitIDs plays the first id, or enqueues every id in order.
func (m Model) submitIDs(mode promptMode, ids []string) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	if mode == promptPlay {
		return PlayByIDCmd(m.ctx, m.svc, ids[0])
	}
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, EnqueueByIDCmd(m.ctx, m.svc, id))
	}
	return tea.Sequence(cmds...)
}
