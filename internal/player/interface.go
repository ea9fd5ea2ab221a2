package player

import (
	"errors"
	"time"
)

var (
	// ErrNotLoaded is returned when an operation needs a decoded source.
	ErrNotLoaded = errors.New("no source loaded")
	// ErrEmptySource is returned by Load for an empty media reference.
	ErrEmptySource = errors.New("empty media reference")
	// ErrUnsupportedFormat is reported when no decoder matches the source.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrOutputUnavailable is returned by Play when the audio output
	// refuses to start. Callers treat it like a blocked autoplay.
	ErrOutputUnavailable = errors.New("audio output unavailable")
)

// Interface defines the media primitive contract for dependency injection and testing.
//
// Load is asynchronous: readiness or failure arrives later on Events,
// tagged with the sequence number Load returned. Events carrying an older
// sequence belong to a replaced source.
type Interface interface {
	Load(src string) (uint64, error)
	Play() error
	Pause()
	Stop()
	Seek(pos time.Duration) error
	SetVolume(level float64)
	Volume() float64
	State() State
	Position() time.Duration
	Duration() time.Duration
	Events() <-chan Event
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
