// Package app contains the bubbletea root model of the player.
package app

import (
	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playback"
)

// Engine event messages. Each one re-arms the watcher of its channel.

type ServiceStateChangedMsg playback.StateChange

type ServiceTrackChangedMsg playback.TrackChange

type ServicePositionChangedMsg playback.PositionChange

type ServiceQueueChangedMsg playback.QueueChange

type ServiceModeChangedMsg playback.ModeChange

type ServiceVolumeChangedMsg playback.VolumeChange

type ServiceErrorMsg playback.ErrorEvent

type ServiceNoticeMsg playback.Notice

// ServiceClosedMsg is sent once the engine has shut down.
type ServiceClosedMsg struct{}

// CommandResultMsg carries the outcome of an engine command that ran off
// the update loop (the by-id lookups).
type CommandResultMsg struct {
	Op  errmsg.Op
	ID  string
	Err error
}

// LikeStatusMsg reports the like state of a song.
type LikeStatusMsg struct {
	ID    string
	Liked bool
	Err   error
}

// ClearStatusMsg clears the status line unless a newer message replaced it.
type ClearStatusMsg struct {
	Version int
}
