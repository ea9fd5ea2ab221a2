package player

import "time"

// EventKind identifies a media callback.
type EventKind int

const (
	EventReady EventKind = iota // source decoded, ready to play
	EventTick                   // periodic position update while playing
	EventEnded                  // stream drained naturally
	EventError                  // load or decode failure
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "Ready"
	case EventTick:
		return "Tick"
	case EventEnded:
		return "Ended"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is emitted by the media primitive.
type Event struct {
	Kind     EventKind
	Seq      uint64 // load sequence the event belongs to
	Position time.Duration
	Duration time.Duration
	Err      error
}
