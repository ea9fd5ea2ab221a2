package player

// State is where the media primitive is in its lifecycle.
//
// Load moves any state to Loading; a successful decode lands in Paused and
// a failure in Stopped. Play and Pause toggle between Paused and Playing.
// A drained stream drops back to Paused and reports EventEnded.
type State int

const (
	Stopped State = iota
	Loading
	Paused
	Playing
)

var stateNames = [...]string{
	Stopped: "Stopped",
	Loading: "Loading",
	Paused:  "Paused",
	Playing: "Playing",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// IsLoaded reports whether a decoded source is attached.
func (s State) IsLoaded() bool { return s == Paused || s == Playing }

// CanPause reports whether Pause has anything to do.
func (s State) CanPause() bool { return s == Playing }
