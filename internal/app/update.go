package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/action"
	"github.com/llehouerou/wavestream/internal/ui/helpbindings"
	"github.com/llehouerou/wavestream/internal/ui/queuepanel"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.promptInput.Width = max(msg.Width-24, 10)
		m.queue.SetSize(m.Width, m.queueHeight())
		m.help.SetSize(m.Width, m.Height)
		return m, nil

	case action.Msg:
		return m.handleAction(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case ServiceStateChangedMsg:
		m.refresh()
		return m, m.watchState()

	case ServiceTrackChangedMsg:
		return m.handleTrackChanged(msg)

	case ServicePositionChangedMsg:
		m.snap.Elapsed = msg.Position
		m.snap.Duration = msg.Duration
		return m, m.watchPosition()

	case ServiceQueueChangedMsg:
		m.refresh()
		return m, m.watchQueue()

	case ServiceModeChangedMsg:
		m.snap.Shuffle = msg.Shuffle
		m.snap.RepeatMode = msg.RepeatMode
		return m, m.watchMode()

	case ServiceVolumeChangedMsg:
		m.snap.Volume = msg.Volume
		m.snap.Muted = msg.Muted
		return m, m.watchVolume()

	case ServiceErrorMsg:
		m.refresh()
		cmd := m.setStatus(errmsg.Format(errmsg.ForEvent(msg.Operation), msg.Err), statusError)
		return m, tea.Batch(cmd, m.notify(notify.ForError(playback.ErrorEvent(msg))), m.watchErrors())

	case ServiceNoticeMsg:
		cmd := m.setStatus(msg.Message, statusInfo)
		return m, tea.Batch(cmd, m.notify(notify.ForNotice(playback.Notice(msg))), m.watchNotices())

	case ServiceClosedMsg:
		return m, nil

	case CommandResultMsg:
		return m, m.reportCommand(msg.Op, msg.Err)

	case LikeStatusMsg:
		if msg.Err != nil {
			return m, m.setStatus(errmsg.Format(errmsg.OpLikeToggle, msg.Err), statusError)
		}
		m.likeID = msg.ID
		m.liked = msg.Liked
		return m, nil

	case ClearStatusMsg:
		if msg.Version == m.statusVersion {
			m.status = ""
		}
		return m, nil
	}

	if m.prompt != promptNone {
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleTrackChanged(msg ServiceTrackChangedMsg) (tea.Model, tea.Cmd) {
	m.refresh()
	cmds := []tea.Cmd{m.watchTrack()}
	if msg.Current != nil {
		if msg.Index >= 0 {
			m.queue.SyncCursor()
		}
		cmds = append(cmds,
			FetchLikeCmd(m.ctx, m.liker, msg.Current.ID),
			m.notify(notify.ForTrack(*msg.Current)),
		)
	}
	return m, tea.Batch(cmds...)
}

// handleAction applies popup and queue panel requests.
func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case helpbindings.Close:
		m.showHelp = false
		return m, nil
	case queuepanel.JumpToTrack:
		if a.Index >= len(m.snap.Queue) {
			return m, nil
		}
		t := m.snap.Queue[a.Index]
		return m, m.run(errmsg.OpPlaybackLoad, m.svc.LoadAndPlay(t, playback.AtIndex(a.Index)))
	case queuepanel.Dequeue:
		return m, m.run(errmsg.OpQueueRemove, m.svc.Dequeue(a.Index))
	case queuepanel.Move:
		return m, m.run(errmsg.OpQueueMove, m.svc.Move(a.From, a.To))
	}
	return m, nil
}

// reportCommand shows the outcome of a command on the status line.
// Informational outcomes are covered by engine notices.
func (m *Model) reportCommand(op errmsg.Op, err error) tea.Cmd {
	switch playback.Classify(err) {
	case playback.SeverityNone, playback.SeverityInfo:
		return nil
	case playback.SeverityInvalid:
		if errors.Is(err, playback.ErrClosed) {
			return nil
		}
		return m.setStatus(errmsg.Format(op, err), statusInfo)
	default:
		return m.setStatus(errmsg.Format(op, err), statusError)
	}
}

func (m *Model) setStatus(text string, level statusLevel) tea.Cmd {
	m.status = text
	m.statusLevel = level
	m.statusVersion++
	return ClearStatusCmd(m.statusVersion)
}

func (m Model) notify(n notify.Notification) tea.Cmd {
	return NotifyCmd(m.notifier, n)
}

// currentLiked reports whether the current track is liked.
func (m Model) currentLiked() bool {
	cur := m.snap.Current
	return cur != nil && cur.ID == m.likeID && m.liked
}
