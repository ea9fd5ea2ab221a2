package playback

import (
	"context"
	"time"

	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// PlayOptions controls how LoadAndPlay places a track in the queue. The
// zero value locates the track in the queue by id and plays it ad hoc when
// it is not queued.
type PlayOptions struct {
	// QueueIndex is the queue position the track is played from; it is
	// only used when HasIndex is set.
	QueueIndex int
	HasIndex   bool
	// ClearQueue replaces the queue with just this track.
	ClearQueue bool
}

// AtIndex returns options for playing the queue entry at index.
func AtIndex(index int) PlayOptions {
	return PlayOptions{QueueIndex: index, HasIndex: true}
}

// Service defines the playback engine contract.
type Service interface {
	// Transport
	LoadAndPlay(t playlist.Track, opts PlayOptions) error
	PlayByID(ctx context.Context, id string) error
	Play() error
	Pause() error
	TogglePlay() error
	Next() error
	Previous() error
	Seek(pos time.Duration) error
	SeekFraction(f float64) error

	// Volume and modes
	SetVolume(v float64) error
	ToggleMute() error
	ToggleShuffle() bool
	CycleRepeat() RepeatMode
	SetRepeatMode(mode RepeatMode)

	// Queue manipulation
	Enqueue(t playlist.Track) error
	EnqueueByID(ctx context.Context, id string) error
	Dequeue(index int) error
	ClearQueue()
	Move(from, to int) error
	Undo() bool
	Redo() bool

	// State queries
	State() State
	CurrentTrack() *playlist.Track
	Queue() []playlist.Track
	QueueIndex() int
	Elapsed() time.Duration
	Duration() time.Duration
	Volume() float64
	Muted() bool
	Shuffle() bool
	RepeatMode() RepeatMode
	Snapshot() Snapshot

	// Media callbacks and lifecycle
	Restore(now time.Time) error
	HandleMediaEvent(e player.Event)
	Run(ctx context.Context)
	Subscribe() *Subscription
	Close() error
}

// Snapshot is a consistent read of the engine state for display.
type Snapshot struct {
	State      State
	Current    *playlist.Track
	Queue      []playlist.Track
	QueueIndex int
	Elapsed    time.Duration
	Duration   time.Duration
	Volume     float64
	Muted      bool
	Shuffle    bool
	RepeatMode RepeatMode
}
