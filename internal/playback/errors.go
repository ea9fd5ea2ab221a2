package playback

import (
	"errors"

	"github.com/llehouerou/wavestream/internal/player"
)

var (
	// ErrNothingToPlay is returned by Play when no track is current.
	ErrNothingToPlay = errors.New("nothing to play")
	// ErrQueueEmpty is returned by Next and Previous on an empty queue.
	ErrQueueEmpty = errors.New("queue is empty")
	// ErrIndexOutOfRange is returned for queue positions that do not exist.
	ErrIndexOutOfRange = errors.New("queue index out of range")
	// ErrNoTrack is returned by Seek when no track is loaded.
	ErrNoTrack = errors.New("no track loaded")
	// ErrNoAudioRef is returned when a track has no playable media reference.
	ErrNoAudioRef = errors.New("track has no audio reference")
	// ErrAlreadyQueued is returned by Enqueue for a track already in the queue.
	ErrAlreadyQueued = errors.New("already queued")
	// ErrStaleLookup is returned when a newer command superseded a lookup.
	ErrStaleLookup = errors.New("superseded by a newer command")
	// ErrNoLookup is returned by the by-id commands when no lookup is configured.
	ErrNoLookup = errors.New("song lookup not configured")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("playback engine closed")
)

// Severity classifies a command outcome for display.
type Severity int

const (
	SeverityNone      Severity = iota // success
	SeverityInfo                      // informational, e.g. already queued
	SeverityInvalid                   // invalid command, state unchanged
	SeverityTransient                 // lookup or network failure
	SeverityPlayback                  // media rejected or failed to play
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityInfo:
		return "info"
	case SeverityInvalid:
		return "invalid"
	case SeverityTransient:
		return "transient"
	case SeverityPlayback:
		return "playback"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by the engine to its severity.
func Classify(err error) Severity {
	switch {
	case err == nil:
		return SeverityNone
	case errors.Is(err, ErrAlreadyQueued), errors.Is(err, ErrStaleLookup):
		return SeverityInfo
	case errors.Is(err, ErrNothingToPlay),
		errors.Is(err, ErrQueueEmpty),
		errors.Is(err, ErrIndexOutOfRange),
		errors.Is(err, ErrNoTrack),
		errors.Is(err, ErrNoLookup),
		errors.Is(err, ErrClosed):
		return SeverityInvalid
	case errors.Is(err, ErrNoAudioRef),
		errors.Is(err, player.ErrNotLoaded),
		errors.Is(err, player.ErrEmptySource),
		errors.Is(err, player.ErrUnsupportedFormat),
		errors.Is(err, player.ErrOutputUnavailable):
		return SeverityPlayback
	default:
		// Lookup, network and storage failures
		return SeverityTransient
	}
}
