// Package errmsg turns failures into the one-line messages shown in the
// status bar and in notifications.
package errmsg

import "fmt"

// Op names a user-visible operation, phrased to follow "Failed to".
type Op string

const (
	OpPlaybackLoad    Op = "load track"
	OpPlaybackStart   Op = "start playback"
	OpPlaybackAdvance Op = "advance to next track"
	OpPlaybackSeek    Op = "seek"
	OpPlaybackVolume  Op = "change volume"

	OpQueueAdd    Op = "add to queue"
	OpQueueRemove Op = "remove from queue"
	OpQueueMove   Op = "move queue item"
	OpQueueLoad   Op = "load queue"
	OpQueueClear  Op = "clear saved state"

	OpSongLookup Op = "look up song"
	OpLikeToggle Op = "update like"
	OpLastfmAuth Op = "authenticate with Last.fm"
)

// ForEvent maps the operation tag of an asynchronous playback failure.
// Unknown tags are shown as they are.
func ForEvent(operation string) Op {
	switch operation {
	case "load":
		return OpPlaybackLoad
	case "play":
		return OpPlaybackStart
	case "advance":
		return OpPlaybackAdvance
	}
	return Op(operation)
}

// Format renders "Failed to <op>: <err>", or "" for a nil error.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}
