package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
)

const statusTimeout = 4 * time.Second

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchServiceEvents starts one watcher per subscription channel.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	return tea.Batch(
		m.watchState(),
		m.watchTrack(),
		m.watchPosition(),
		m.watchQueue(),
		m.watchMode(),
		m.watchVolume(),
		m.watchErrors(),
		m.watchNotices(),
		m.watchDone(),
	)
}

func (m Model) watchState() tea.Cmd {
	return waitForChannel(m.sub.StateChanged, func(e playback.StateChange, _ bool) tea.Msg {
		return ServiceStateChangedMsg(e)
	})
}

func (m Model) watchTrack() tea.Cmd {
	return waitForChannel(m.sub.TrackChanged, func(e playback.TrackChange, _ bool) tea.Msg {
		return ServiceTrackChangedMsg(e)
	})
}

func (m Model) watchPosition() tea.Cmd {
	return waitForChannel(m.sub.PositionChanged, func(e playback.PositionChange, _ bool) tea.Msg {
		return ServicePositionChangedMsg(e)
	})
}

func (m Model) watchQueue() tea.Cmd {
	return waitForChannel(m.sub.QueueChanged, func(e playback.QueueChange, _ bool) tea.Msg {
		return ServiceQueueChangedMsg(e)
	})
}

func (m Model) watchMode() tea.Cmd {
	return waitForChannel(m.sub.ModeChanged, func(e playback.ModeChange, _ bool) tea.Msg {
		return ServiceModeChangedMsg(e)
	})
}

func (m Model) watchVolume() tea.Cmd {
	return waitForChannel(m.sub.VolumeChanged, func(e playback.VolumeChange, _ bool) tea.Msg {
		return ServiceVolumeChangedMsg(e)
	})
}

func (m Model) watchErrors() tea.Cmd {
	return waitForChannel(m.sub.Error, func(e playback.ErrorEvent, _ bool) tea.Msg {
		return ServiceErrorMsg(e)
	})
}

func (m Model) watchNotices() tea.Cmd {
	return waitForChannel(m.sub.Notice, func(e playback.Notice, _ bool) tea.Msg {
		return ServiceNoticeMsg(e)
	})
}

func (m Model) watchDone() tea.Cmd {
	return waitForChannel(m.sub.Done, func(struct{}, bool) tea.Msg {
		return ServiceClosedMsg{}
	})
}

// ClearStatusCmd returns a command that sends ClearStatusMsg after the status timeout.
func ClearStatusCmd(version int) tea.Cmd {
	return tea.Tick(statusTimeout, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{Version: version}
	})
}

// PlayByIDCmd looks up a song and plays it.
func PlayByIDCmd(ctx context.Context, svc playback.Service, id string) tea.Cmd {
	return func() tea.Msg {
		return CommandResultMsg{Op: errmsg.OpSongLookup, ID: id, Err: svc.PlayByID(ctx, id)}
	}
}

// EnqueueByIDCmd looks up a song and appends it to the queue.
func EnqueueByIDCmd(ctx context.Context, svc playback.Service, id string) tea.Cmd {
	return func() tea.Msg {
		return CommandResultMsg{Op: errmsg.OpQueueAdd, ID: id, Err: svc.EnqueueByID(ctx, id)}
	}
}

// FetchLikeCmd queries the like state of a song.
func FetchLikeCmd(ctx context.Context, l Liker, id string) tea.Cmd {
	if l == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		liked, err := l.IsLiked(ctx, id)
		return LikeStatusMsg{ID: id, Liked: liked, Err: err}
	}
}

// ToggleLikeCmd sets the like state of a song to liked.
func ToggleLikeCmd(ctx context.Context, l Liker, id string, liked bool) tea.Cmd {
	if l == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		status, err := l.SetLiked(ctx, id, liked)
		return LikeStatusMsg{ID: id, Liked: status.Liked, Err: err}
	}
}

// NotifyCmd sends a desktop notification. Failures are logged.
func NotifyCmd(n notify.Notifier, notif notify.Notification) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := n.Notify(notif); err != nil {
			log.WithError(err).Debug("desktop notification")
		}
		return nil
	}
}
