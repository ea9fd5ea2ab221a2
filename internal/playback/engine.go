package playback

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
)

// Lookup resolves a song id into a playable track.
type Lookup interface {
	Song(ctx context.Context, id string) (playlist.Track, error)
}

// Recorder is notified once per successful playback start.
type Recorder interface {
	RecordPlay(ctx context.Context, t playlist.Track) error
}

// Config holds the engine's timing policy.
type Config struct {
	// PreviousRestartThreshold is the elapsed time above which Previous
	// restarts the current track instead of moving back.
	PreviousRestartThreshold time.Duration
	// ResumeCutoff is the maximum snapshot age for resuming media on Restore.
	ResumeCutoff time.Duration
	// PersistInterval throttles snapshot writes driven by position ticks.
	PersistInterval time.Duration
	// SeekGrace is how long ticks are ignored after a seek.
	SeekGrace time.Duration
	// RecordTimeout bounds each play-count notification.
	RecordTimeout time.Duration
	// HistorySize is the number of queue states kept for undo.
	HistorySize int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		PreviousRestartThreshold: 3 * time.Second,
		ResumeCutoff:             10 * time.Minute,
		PersistInterval:          5 * time.Second,
		SeekGrace:                500 * time.Millisecond,
		RecordTimeout:            10 * time.Second,
		HistorySize:              50,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the timing policy.
func WithConfig(c Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithLookup sets the song lookup used by PlayByID and EnqueueByID.
func WithLookup(l Lookup) Option {
	return func(e *Engine) { e.lookup = l }
}

// WithRecorder sets the play-count recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the random source used for shuffle.
func WithRand(r playlist.Rand) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithVolume sets the volume used until a stored volume is restored.
func WithVolume(v float64) Option {
	return func(e *Engine) {
		e.volume = player.ClampVolume(v)
		if e.volume > 0 {
			e.preMute = e.volume
		}
	}
}

// WithDispatcher sets how fire-and-forget work (play-count notifications)
// is run. The default starts a goroutine.
func WithDispatcher(d func(func())) Option {
	return func(e *Engine) { e.dispatch = d }
}

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)

// Engine owns the queue and transport state and drives the media player.
// All commands are serialized by mu; media events enter through
// HandleMediaEvent and are matched to the load that produced them.
type Engine struct {
	mu sync.Mutex

	player   player.Interface
	store    state.Interface
	lookup   Lookup
	recorder Recorder
	dispatch func(func())
	now      func() time.Time
	rnd      playlist.Rand
	cfg      Config

	queue   *playlist.PlayingQueue
	history *playlist.QueueHistory

	current   *playlist.Track
	fromQueue bool // current was started from a queue position
	state     State
	elapsed   time.Duration
	duration  time.Duration
	sourceRef string

	volume  float64
	muted   bool
	preMute float64
	shuffle bool
	repeat  RepeatMode

	loaded      bool   // player holds a decoded source for current
	mediaSeq    uint64 // sequence of the outstanding player load
	pendingPlay bool   // start playback when the load becomes ready
	pendingSeek time.Duration
	quietStart  bool // autoplay failure is not reported (restore)
	gen         uint64
	recordedGen uint64

	playGen    uint64
	queueEpoch uint64
	lookupSeq  uint64
	enqueueGen map[string]uint64 // latest lookup per song id

	lastPersist time.Time
	seekGuard   time.Time

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a playback engine driving p and persisting to store.
func New(p player.Interface, store state.Interface, opts ...Option) *Engine {
	e := &Engine{
		player:     p,
		store:      store,
		dispatch:   func(f func()) { go f() },
		now:        time.Now,
		rnd:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // shuffle order
		cfg:        DefaultConfig(),
		queue:      playlist.NewQueue(),
		state:      StateIdle,
		volume:     1,
		preMute:    1,
		enqueueGen: make(map[string]uint64),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = playlist.NewQueueHistory(max(e.cfg.HistorySize, 1))
	e.history.Record(e.queue)
	return e
}

// State returns the current transport state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentTrack returns a copy of the current track, or nil if none.
func (e *Engine) CurrentTrack() *playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentCopyLocked()
}

func (e *Engine) currentCopyLocked() *playlist.Track {
	if e.current == nil {
		return nil
	}
	t := *e.current
	return &t
}

// Queue returns a copy of all tracks in the queue.
func (e *Engine) Queue() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Tracks()
}

// QueueIndex returns the current queue index (-1 if none).
func (e *Engine) QueueIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.CurrentIndex()
}

// Elapsed returns the playback position.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// Duration returns the current track duration, 0 if unknown.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Volume returns the effective volume level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Muted returns whether the volume is muted.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Shuffle returns whether shuffle is enabled.
func (e *Engine) Shuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shuffle
}

// RepeatMode returns the current repeat mode.
func (e *Engine) RepeatMode() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeat
}

// Snapshot returns a consistent copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:      e.state,
		Current:    e.currentCopyLocked(),
		Queue:      e.queue.Tracks(),
		QueueIndex: e.queue.CurrentIndex(),
		Elapsed:    e.elapsed,
		Duration:   e.duration,
		Volume:     e.volume,
		Muted:      e.muted,
		Shuffle:    e.shuffle,
		RepeatMode: e.repeat,
	}
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	e.subs = append(e.subs, sub)
	return sub
}

// Run feeds player events into the engine until ctx is done or the
// engine is closed.
func (e *Engine) Run(ctx context.Context) {
	events := e.player.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.HandleMediaEvent(ev)
		}
	}
}

// Close writes a final snapshot and shuts down subscriptions. The player
// and store are owned by the caller.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.persistNowLocked()
	e.closed = true
	close(e.done)
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return nil
}

func (e *Engine) broadcast(send func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		send(sub)
	}
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	prev := e.state
	e.state = s
	e.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (e *Engine) emitQueueLocked() {
	tracks := e.queue.Tracks()
	index := e.queue.CurrentIndex()
	e.broadcast(func(sub *Subscription) {
		sub.sendQueue(QueueChange{Tracks: tracks, Index: index})
	})
}

func (e *Engine) emitModeLocked() {
	mc := ModeChange{RepeatMode: e.repeat, Shuffle: e.shuffle}
	e.broadcast(func(sub *Subscription) { sub.sendMode(mc) })
}

func (e *Engine) emitVolumeLocked() {
	vc := VolumeChange{Volume: e.volume, Muted: e.muted}
	e.broadcast(func(sub *Subscription) { sub.sendVolume(vc) })
}

func (e *Engine) emitPositionLocked() {
	pc := PositionChange{Position: e.elapsed, Duration: e.duration}
	e.broadcast(func(sub *Subscription) { sub.sendPosition(pc) })
}

func (e *Engine) emitTrackLocked(prev *playlist.Track, prevIndex int) {
	tc := TrackChange{
		Previous:      prev,
		Current:       e.currentCopyLocked(),
		PreviousIndex: prevIndex,
		Index:         e.queue.CurrentIndex(),
	}
	e.broadcast(func(sub *Subscription) { sub.sendTrack(tc) })
}

func (e *Engine) noticeLocked(kind NoticeKind, msg string) {
	n := Notice{Kind: kind, Message: msg}
	e.broadcast(func(sub *Subscription) { sub.sendNotice(n) })
}

// reportLocked logs an asynchronous failure and forwards it to subscribers.
func (e *Engine) reportLocked(op string, err error) {
	var trackID string
	if e.current != nil {
		trackID = e.current.ID
	}
	log.WithField("op", op).WithField("track", trackID).WithError(err).Warn("playback failure")
	ev := ErrorEvent{Operation: op, TrackID: trackID, Err: err}
	e.broadcast(func(sub *Subscription) { sub.sendError(ev) })
}

// recordHistoryLocked saves the queue state after a queue mutation.
func (e *Engine) recordHistoryLocked() {
	e.history.Record(e.queue)
}
