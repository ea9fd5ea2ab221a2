package playback

import (
	"fmt"
	"slices"
)

// State is the engine's transport state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

var stateNames = []string{"Idle", "Loading", "Playing", "Paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// RepeatMode is what happens when the current track ends.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatOne
	RepeatAll
)

// repeatNames are the persisted spellings, in cycle order.
var repeatNames = []string{"none", "one", "all"}

func (m RepeatMode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return repeatNames[m]
}

// Next cycles none, one, all, none. Invalid modes restart the cycle.
func (m RepeatMode) Next() RepeatMode {
	if !m.Valid() {
		return RepeatNone
	}
	return (m + 1) % RepeatMode(len(repeatNames))
}

func (m RepeatMode) Valid() bool { return m >= RepeatNone && int(m) < len(repeatNames) }

// ParseRepeatMode reads a persisted mode. An empty name is RepeatNone.
func ParseRepeatMode(s string) (RepeatMode, error) {
	if s == "" {
		return RepeatNone, nil
	}
	if i := slices.Index(repeatNames, s); i >= 0 {
		return RepeatMode(i), nil
	}
	return RepeatNone, fmt.Errorf("unknown repeat mode %q", s)
}
