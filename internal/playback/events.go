package playback

import (
	"time"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// StateChange reports a transport transition.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange reports that another track became current. Restarting the
// same track does not produce one. Current is nil once the engine has
// nothing loaded.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// QueueChange carries the whole queue after any edit or pointer move.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange follows repeat and shuffle toggles.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange follows ticks and seeks. Only the newest is worth reading.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

type VolumeChange struct {
	Volume float64
	Muted  bool
}

// ErrorEvent describes a failure that happened off the caller's goroutine.
type ErrorEvent struct {
	Operation string
	TrackID   string
	Err       error
}

// NoticeKind classifies a Notice.
type NoticeKind int

const (
	NoticeFinished      NoticeKind = iota // end of queue reached
	NoticeRestored                        // state restored on startup
	NoticeAlreadyQueued                   // enqueue of a duplicate
)

// Notice is informational; it never signals a failure.
type Notice struct {
	Kind    NoticeKind
	Message string
}
