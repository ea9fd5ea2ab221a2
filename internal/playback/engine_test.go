//nolint:goconst // test file with repeated string literals
package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/wavestream/internal/catalog"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
)

// seqRand cycles through predetermined values for IntN.
type seqRand struct {
	values []int
	i      int
}

func (r *seqRand) IntN(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type playRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *playRecorder) RecordPlay(_ context.Context, t playlist.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, t.ID)
	return nil
}

func (r *playRecorder) played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

// gatedLookup blocks every Song call until release is closed.
type gatedLookup struct {
	tracks  map[string]playlist.Track
	started chan string
	release chan struct{}
}

func newGatedLookup(tracks ...playlist.Track) *gatedLookup {
	g := &gatedLookup{
		tracks:  make(map[string]playlist.Track),
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	for _, t := range tracks {
		g.tracks[t.ID] = t
	}
	return g
}

func (g *gatedLookup) Song(ctx context.Context, id string) (playlist.Track, error) {
	g.started <- id
	select {
	case <-g.release:
	case <-ctx.Done():
		return playlist.Track{}, ctx.Err()
	}
	t, ok := g.tracks[id]
	if !ok {
		return playlist.Track{}, catalog.ErrNotFound
	}
	return t, nil
}

type harness struct {
	eng    *Engine
	player *player.Mock
	store  *state.Mock
	clock  *fakeClock
	rec    *playRecorder
	sub    *Subscription
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		player: player.NewMock(),
		store:  state.NewMock(),
		clock:  &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		rec:    &playRecorder{},
	}
	base := []Option{
		WithClock(h.clock.Now),
		WithRecorder(h.rec),
		WithDispatcher(func(f func()) { f() }),
		WithRand(&seqRand{values: []int{0}}),
	}
	h.eng = New(h.player, h.store, append(base, opts...)...)
	h.sub = h.eng.Subscribe()
	t.Cleanup(func() { _ = h.eng.Close() })
	return h
}

func track(id string) playlist.Track {
	return playlist.Track{
		ID:           id,
		Title:        "Track " + id,
		ArtistName:   "Artist",
		AudioRef:     "/music/" + id + ".mp3",
		DurationHint: 3 * time.Minute,
	}
}

// ready completes the outstanding load.
func (h *harness) ready() {
	h.eng.HandleMediaEvent(h.player.Ready(3 * time.Minute))
}

// tick advances the clock by a second and reports pos.
func (h *harness) tick(pos time.Duration) {
	h.clock.Advance(time.Second)
	h.eng.HandleMediaEvent(h.player.Tick(pos))
}

// playQueue enqueues ids and plays the entry at index to Playing.
func (h *harness) playQueue(t *testing.T, index int, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := h.eng.Enqueue(track(id)); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", id, err)
		}
	}
	if err := h.eng.LoadAndPlay(track(ids[index]), AtIndex(index)); err != nil {
		t.Fatalf("LoadAndPlay() error = %v", err)
	}
	h.ready()
	if got := h.eng.State(); got != StatePlaying {
		t.Fatalf("State() = %v, want Playing", got)
	}
}

func (h *harness) lastLoad() string {
	calls := h.player.LoadCalls()
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1]
}

func drainErrors(sub *Subscription) []ErrorEvent {
	var out []ErrorEvent
	for {
		select {
		case ev := <-sub.Error:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func drainNotices(sub *Subscription) []Notice {
	var out []Notice
	for {
		select {
		case n := <-sub.Notice:
			out = append(out, n)
		default:
			return out
		}
	}
}

func currentID(e *Engine) string {
	if t := e.CurrentTrack(); t != nil {
		return t.ID
	}
	return ""
}

func TestEngine_LoadAndPlay_StartsWhenReady(t *testing.T) {
	h := newHarness(t)

	if err := h.eng.LoadAndPlay(track("a"), PlayOptions{}); err != nil {
		t.Fatalf("LoadAndPlay() error = %v", err)
	}
	if got := h.eng.State(); got != StateLoading {
		t.Errorf("State() = %v, want Loading", got)
	}
	if got := h.lastLoad(); got != "/music/a.mp3" {
		t.Errorf("Load src = %q, want /music/a.mp3", got)
	}
	if got := h.eng.QueueIndex(); got != -1 {
		t.Errorf("QueueIndex() = %d, want -1 for ad-hoc play", got)
	}

	h.ready()

	if got := h.eng.State(); got != StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
	if got := h.eng.Duration(); got != 3*time.Minute {
		t.Errorf("Duration() = %v, want 3m", got)
	}
	if got := h.rec.played(); len(got) != 1 || got[0] != "a" {
		t.Errorf("recorded plays = %v, want [a]", got)
	}

	tc := <-h.sub.TrackChanged
	if tc.Current == nil || tc.Current.ID != "a" {
		t.Errorf("TrackChanged.Current = %v, want a", tc.Current)
	}
}

func TestEngine_LoadAndPlay_SameTrackToggles(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 0, "a")
	h.tick(30 * time.Second)

	if err := h.eng.LoadAndPlay(track("a"), AtIndex(0)); err != nil {
		t.Fatalf("LoadAndPlay() error = %v", err)
	}

	if got := h.eng.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	if got := h.eng.Elapsed(); got != 30*time.Second {
		t.Errorf("Elapsed() = %v, want 30s", got)
	}
	if got := len(h.player.LoadCalls()); got != 1 {
		t.Errorf("Load called %d times, want 1", got)
	}

	if err := h.eng.LoadAndPlay(track("a"), PlayOptions{}); err != nil {
		t.Fatalf("LoadAndPlay() error = %v", err)
	}
	if got := h.eng.State(); got != StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
	if got := h.rec.played(); len(got) != 1 {
		t.Errorf("recorded plays = %v, want one play per load", got)
	}
}

func TestEngine_LoadAndPlay_Options(t *testing.T) {
	t.Run("index out of range", func(t *testing.T) {
		h := newHarness(t)
		_ = h.eng.Enqueue(track("a"))

		err := h.eng.LoadAndPlay(track("a"), AtIndex(3))
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("LoadAndPlay() error = %v, want ErrIndexOutOfRange", err)
		}
		if got := len(h.player.LoadCalls()); got != 0 {
			t.Errorf("Load called %d times, want 0", got)
		}
	})

	t.Run("mismatched index locates by id", func(t *testing.T) {
		h := newHarness(t)
		_ = h.eng.Enqueue(track("a"))
		_ = h.eng.Enqueue(track("b"))

		if err := h.eng.LoadAndPlay(track("b"), AtIndex(0)); err != nil {
			t.Fatalf("LoadAndPlay() error = %v", err)
		}
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
	})

	t.Run("clear queue", func(t *testing.T) {
		h := newHarness(t)
		_ = h.eng.Enqueue(track("a"))
		_ = h.eng.Enqueue(track("b"))

		if err := h.eng.LoadAndPlay(track("c"), PlayOptions{ClearQueue: true}); err != nil {
			t.Fatalf("LoadAndPlay() error = %v", err)
		}
		q := h.eng.Queue()
		if len(q) != 1 || q[0].ID != "c" {
			t.Errorf("Queue() = %v, want [c]", q)
		}
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
	})
}

func TestEngine_LoadAndPlay_MissingAudioRef(t *testing.T) {
	h := newHarness(t)

	err := h.eng.LoadAndPlay(playlist.Track{ID: "x", Title: "Broken"}, PlayOptions{})
	if !errors.Is(err, ErrNoAudioRef) {
		t.Fatalf("LoadAndPlay() error = %v, want ErrNoAudioRef", err)
	}
	if Classify(err) != SeverityPlayback {
		t.Errorf("Classify() = %v, want playback", Classify(err))
	}
	if got := h.eng.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	if got := currentID(h.eng); got != "x" {
		t.Errorf("current = %q, want x", got)
	}
	if got := len(h.player.LoadCalls()); got != 0 {
		t.Errorf("Load called %d times, want 0", got)
	}
}

func TestEngine_StaleMediaEventsIgnored(t *testing.T) {
	h := newHarness(t)

	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})
	stale := h.player.Ready(time.Minute)
	_ = h.eng.LoadAndPlay(track("b"), PlayOptions{})

	h.eng.HandleMediaEvent(stale)
	if got := h.eng.State(); got != StateLoading {
		t.Fatalf("State() after stale Ready = %v, want Loading", got)
	}

	h.ready()
	if got := h.eng.State(); got != StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
	if got := currentID(h.eng); got != "b" {
		t.Errorf("current = %q, want b", got)
	}
	if got := h.rec.played(); len(got) != 1 || got[0] != "b" {
		t.Errorf("recorded plays = %v, want [b]", got)
	}
}

func TestEngine_LoadFailure(t *testing.T) {
	h := newHarness(t)
	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})

	h.eng.HandleMediaEvent(h.player.Fail(player.ErrUnsupportedFormat))

	if got := h.eng.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	if got := currentID(h.eng); got != "a" {
		t.Errorf("current = %q, want a", got)
	}
	errs := drainErrors(h.sub)
	if len(errs) != 1 {
		t.Fatalf("error events = %v, want 1", errs)
	}
	if errs[0].Operation != "load" || errs[0].TrackID != "a" {
		t.Errorf("ErrorEvent = %+v, want load of a", errs[0])
	}
	if !errors.Is(errs[0].Err, player.ErrUnsupportedFormat) {
		t.Errorf("ErrorEvent.Err = %v, want ErrUnsupportedFormat", errs[0].Err)
	}

	// Play retries the load.
	if err := h.eng.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if got := len(h.player.LoadCalls()); got != 2 {
		t.Errorf("Load called %d times, want 2", got)
	}
	if got := h.eng.State(); got != StateLoading {
		t.Errorf("State() = %v, want Loading", got)
	}
}

func TestEngine_AutoplayRejected(t *testing.T) {
	h := newHarness(t)
	h.player.SetPlayError(player.ErrOutputUnavailable)

	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})
	h.ready()

	if got := h.eng.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	errs := drainErrors(h.sub)
	if len(errs) != 1 || !errors.Is(errs[0].Err, player.ErrOutputUnavailable) {
		t.Errorf("error events = %v, want one ErrOutputUnavailable", errs)
	}
	if got := h.rec.played(); len(got) != 0 {
		t.Errorf("recorded plays = %v, want none", got)
	}
}

func TestEngine_PlayPauseWithoutTrack(t *testing.T) {
	h := newHarness(t)

	if err := h.eng.Play(); !errors.Is(err, ErrNothingToPlay) {
		t.Errorf("Play() error = %v, want ErrNothingToPlay", err)
	}
	if err := h.eng.Pause(); !errors.Is(err, ErrNothingToPlay) {
		t.Errorf("Pause() error = %v, want ErrNothingToPlay", err)
	}
	if err := h.eng.Seek(time.Second); !errors.Is(err, ErrNoTrack) {
		t.Errorf("Seek() error = %v, want ErrNoTrack", err)
	}
	if err := h.eng.SeekFraction(0.5); !errors.Is(err, ErrNoTrack) {
		t.Errorf("SeekFraction() error = %v, want ErrNoTrack", err)
	}
	if err := h.eng.Next(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Next() error = %v, want ErrQueueEmpty", err)
	}
}

func TestEngine_PauseWhileLoadingCancelsAutoplay(t *testing.T) {
	h := newHarness(t)
	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})

	if err := h.eng.TogglePlay(); err != nil {
		t.Fatalf("TogglePlay() error = %v", err)
	}
	h.ready()

	if got := h.eng.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	if got := h.player.PlayCount(); got != 0 {
		t.Errorf("Play called %d times, want 0", got)
	}
}

func TestEngine_RecordsOncePerLoad(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 0, "a", "b")

	_ = h.eng.Pause()
	_ = h.eng.Play()
	_ = h.eng.Pause()
	_ = h.eng.Play()

	if got := h.rec.played(); len(got) != 1 {
		t.Errorf("recorded plays = %v, want [a]", got)
	}

	_ = h.eng.Next()
	h.ready()
	if got := h.rec.played(); len(got) != 2 || got[1] != "b" {
		t.Errorf("recorded plays = %v, want [a b]", got)
	}
}

func TestEngine_Enqueue_NoDuplicates(t *testing.T) {
	h := newHarness(t)

	if err := h.eng.Enqueue(track("a")); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	err := h.eng.Enqueue(track("a"))
	if !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("Enqueue() duplicate error = %v, want ErrAlreadyQueued", err)
	}
	if Classify(err) != SeverityInfo {
		t.Errorf("Classify() = %v, want info", Classify(err))
	}
	if got := len(h.eng.Queue()); got != 1 {
		t.Errorf("Queue() len = %d, want 1", got)
	}

	notices := drainNotices(h.sub)
	if len(notices) != 1 || notices[0].Kind != NoticeAlreadyQueued {
		t.Errorf("notices = %v, want one already-queued notice", notices)
	}
}

func TestEngine_QueueIndexInvariant(t *testing.T) {
	h := newHarness(t, WithRand(rand.New(rand.NewPCG(1, 2))))
	rng := rand.New(rand.NewPCG(7, 11))
	ids := []string{"a", "b", "c", "d", "e", "f"}

	for step := range 2000 {
		n := len(h.eng.Queue())
		switch rng.IntN(10) {
		case 0, 1:
			_ = h.eng.Enqueue(track(ids[rng.IntN(len(ids))]))
		case 2:
			if n > 0 {
				_ = h.eng.Dequeue(rng.IntN(n))
			}
		case 3:
			if n > 0 {
				_ = h.eng.Move(rng.IntN(n), rng.IntN(n))
			}
		case 4:
			if n > 0 {
				i := rng.IntN(n)
				_ = h.eng.LoadAndPlay(h.eng.Queue()[i], AtIndex(i))
			}
		case 5:
			_ = h.eng.Next()
		case 6:
			_ = h.eng.Previous()
		case 7:
			h.ready()
			h.eng.HandleMediaEvent(h.player.Ended())
		case 8:
			if rng.IntN(4) == 0 {
				h.eng.ClearQueue()
			} else {
				h.eng.Undo()
			}
		case 9:
			h.eng.ToggleShuffle()
		}

		q := h.eng.Queue()
		idx := h.eng.QueueIndex()
		if idx < -1 || idx >= len(q) {
			t.Fatalf("step %d: QueueIndex() = %d with %d tracks", step, idx, len(q))
		}
		if idx >= 0 && currentID(h.eng) != q[idx].ID {
			t.Fatalf("step %d: current %q, queue[%d] = %q", step, currentID(h.eng), idx, q[idx].ID)
		}
		seen := make(map[string]bool)
		for _, tr := range q {
			if seen[tr.ID] {
				t.Fatalf("step %d: duplicate %q in queue", step, tr.ID)
			}
			seen[tr.ID] = true
		}
	}
}

func TestEngine_Volume(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 0.3, 0.3},
		{"below zero", -0.5, 0},
		{"above one", 1.7, 1},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.eng.SetVolume(tt.in); err != nil {
				t.Fatalf("SetVolume() error = %v", err)
			}
			if got := h.eng.Volume(); got != tt.want {
				t.Errorf("Volume() = %v, want %v", got, tt.want)
			}
			if got := h.player.Volume(); got != tt.want {
				t.Errorf("player volume = %v, want %v", got, tt.want)
			}
			saved := h.store.SavedVolume()
			if saved == nil || saved.Volume != tt.want {
				t.Errorf("saved volume = %+v, want %v", saved, tt.want)
			}
		})
	}
}

func TestEngine_ToggleMute(t *testing.T) {
	h := newHarness(t)
	_ = h.eng.SetVolume(0.6)

	_ = h.eng.ToggleMute()
	if !h.eng.Muted() || h.eng.Volume() != 0 {
		t.Fatalf("after mute: Muted() = %v, Volume() = %v", h.eng.Muted(), h.eng.Volume())
	}

	// Mute survives a track change.
	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})
	if got := h.player.Volume(); got != 0 {
		t.Errorf("player volume after load = %v, want 0", got)
	}

	_ = h.eng.ToggleMute()
	if h.eng.Muted() {
		t.Error("Muted() = true after unmute")
	}
	if got := h.eng.Volume(); got != 0.6 {
		t.Errorf("Volume() = %v, want 0.6", got)
	}
	saved := h.store.SavedVolume()
	if saved == nil || saved.Muted || saved.Volume != 0.6 {
		t.Errorf("saved volume = %+v, want 0.6 unmuted", saved)
	}
}

func TestEngine_RepeatOneLoops(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 0, "a", "b")
	h.eng.SetRepeatMode(RepeatOne)

	for range 3 {
		h.eng.HandleMediaEvent(h.player.Ended())
		if got := h.eng.State(); got != StatePlaying {
			t.Fatalf("State() = %v, want Playing", got)
		}
	}

	if got := h.eng.QueueIndex(); got != 0 {
		t.Errorf("QueueIndex() = %d, want 0", got)
	}
	if got := h.player.SeekCalls(); len(got) != 3 || got[0] != 0 {
		t.Errorf("Seek calls = %v, want three rewinds", got)
	}
	if got := len(h.player.LoadCalls()); got != 1 {
		t.Errorf("Load called %d times, want 1", got)
	}
}

func TestEngine_EndOfTrack(t *testing.T) {
	t.Run("advances to next entry", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a", "b")

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
		if got := h.lastLoad(); got != "/music/b.mp3" {
			t.Errorf("Load src = %q, want b", got)
		}
		h.ready()
		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}
	})

	t.Run("stops at end of queue", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b")
		h.tick(2 * time.Minute)

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if got := h.eng.Elapsed(); got != 0 {
			t.Errorf("Elapsed() = %v, want 0", got)
		}
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
		if got := len(h.player.LoadCalls()); got != 1 {
			t.Errorf("Load called %d times, want 1", got)
		}
		notices := drainNotices(h.sub)
		if len(notices) != 1 || notices[0].Kind != NoticeFinished {
			t.Errorf("notices = %v, want finished", notices)
		}
	})

	t.Run("repeat all wraps", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b")
		h.eng.SetRepeatMode(RepeatAll)

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
		if got := h.lastLoad(); got != "/music/a.mp3" {
			t.Errorf("Load src = %q, want a", got)
		}
	})

	t.Run("shuffle never repeats current", func(t *testing.T) {
		h := newHarness(t, WithRand(&seqRand{values: []int{1}}))
		h.playQueue(t, 0, "a", "b", "c")
		h.eng.ToggleShuffle()

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.QueueIndex(); got != 2 {
			t.Errorf("QueueIndex() = %d, want 2", got)
		}
	})

	t.Run("shuffle on a single entry finishes", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a")
		h.eng.ToggleShuffle()

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if got := h.player.SeekCalls(); len(got) != 1 || got[0] != 0 {
			t.Errorf("Seek calls = %v, want one rewind", got)
		}
		notices := drainNotices(h.sub)
		if len(notices) != 1 || notices[0].Kind != NoticeFinished {
			t.Errorf("notices = %v, want finished", notices)
		}
	})

	t.Run("shuffle with repeat all replays a single entry", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a")
		h.eng.ToggleShuffle()
		h.eng.SetRepeatMode(RepeatAll)

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
	})

	t.Run("detached track finishes", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a", "b")
		h.eng.ClearQueue()

		h.eng.HandleMediaEvent(h.player.Ended())

		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if got := currentID(h.eng); got != "a" {
			t.Errorf("current = %q, want a", got)
		}
	})
}

func TestEngine_NextPrevious(t *testing.T) {
	t.Run("next wraps", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 2, "a", "b", "c")

		_ = h.eng.Next()
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
	})

	t.Run("previous moves back early in track", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b")
		h.tick(2 * time.Second)

		_ = h.eng.Previous()
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
		if got := h.lastLoad(); got != "/music/a.mp3" {
			t.Errorf("Load src = %q, want a", got)
		}
	})

	t.Run("previous restarts past threshold", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b")
		h.tick(4 * time.Second)

		_ = h.eng.Previous()
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
		if got := h.eng.Elapsed(); got != 0 {
			t.Errorf("Elapsed() = %v, want 0", got)
		}
		if got := h.player.SeekCalls(); len(got) != 1 || got[0] != 0 {
			t.Errorf("Seek calls = %v, want [0]", got)
		}
		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}
	})

	t.Run("previous wraps from first entry", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a", "b", "c")

		_ = h.eng.Previous()
		if got := h.eng.QueueIndex(); got != 2 {
			t.Errorf("QueueIndex() = %d, want 2", got)
		}
	})

	t.Run("single entry restarts in place", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a")
		h.tick(20 * time.Second)

		if err := h.eng.Next(); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got := len(h.player.LoadCalls()); got != 1 {
			t.Errorf("Load called %d times, want 1", got)
		}
		if got := h.eng.Elapsed(); got != 0 {
			t.Errorf("Elapsed() = %v, want 0", got)
		}
	})

	t.Run("shuffle next picks another entry", func(t *testing.T) {
		h := newHarness(t, WithRand(&seqRand{values: []int{0}}))
		h.playQueue(t, 0, "a", "b", "c")
		h.eng.ToggleShuffle()

		_ = h.eng.Next()
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
	})
}

func TestEngine_Seek(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 0, "a")

	tests := []struct {
		name string
		pos  time.Duration
		want time.Duration
	}{
		{"inside", time.Minute, time.Minute},
		{"past end", 5 * time.Minute, 3 * time.Minute},
		{"negative", -time.Second, 0},
	}
	for _, tt := range tests {
		if err := h.eng.Seek(tt.pos); err != nil {
			t.Fatalf("%s: Seek() error = %v", tt.name, err)
		}
		if got := h.eng.Elapsed(); got != tt.want {
			t.Errorf("%s: Elapsed() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if err := h.eng.SeekFraction(0.5); err != nil {
		t.Fatalf("SeekFraction() error = %v", err)
	}
	if got := h.eng.Elapsed(); got != 90*time.Second {
		t.Errorf("Elapsed() = %v, want 1m30s", got)
	}

	// Ticks right after a seek still report the old position.
	h.eng.HandleMediaEvent(h.player.Tick(10 * time.Second))
	if got := h.eng.Elapsed(); got != 90*time.Second {
		t.Errorf("Elapsed() after early tick = %v, want 1m30s", got)
	}
	h.tick(91 * time.Second)
	if got := h.eng.Elapsed(); got != 91*time.Second {
		t.Errorf("Elapsed() after tick = %v, want 1m31s", got)
	}
}

func TestEngine_SeekWhileLoading(t *testing.T) {
	h := newHarness(t)
	_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})

	if err := h.eng.Seek(30 * time.Second); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := h.player.SeekCalls(); len(got) != 0 {
		t.Fatalf("Seek calls before ready = %v, want none", got)
	}

	h.ready()

	if got := h.player.SeekCalls(); len(got) != 1 || got[0] != 30*time.Second {
		t.Errorf("Seek calls = %v, want [30s]", got)
	}
	if got := h.eng.Elapsed(); got != 30*time.Second {
		t.Errorf("Elapsed() = %v, want 30s", got)
	}
	if got := h.eng.State(); got != StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
}

func TestEngine_Dequeue(t *testing.T) {
	t.Run("current while playing loads replacement", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b", "c")

		if err := h.eng.Dequeue(1); err != nil {
			t.Fatalf("Dequeue() error = %v", err)
		}
		q := h.eng.Queue()
		if len(q) != 2 || q[0].ID != "a" || q[1].ID != "c" {
			t.Errorf("Queue() = %v, want [a c]", q)
		}
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
		if got := h.lastLoad(); got != "/music/c.mp3" {
			t.Errorf("Load src = %q, want c", got)
		}
		if got := h.eng.State(); got != StateLoading {
			t.Errorf("State() = %v, want Loading", got)
		}
	})

	t.Run("current while paused does not load", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b", "c")
		_ = h.eng.Pause()

		_ = h.eng.Dequeue(1)

		if got := currentID(h.eng); got != "c" {
			t.Errorf("current = %q, want c", got)
		}
		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if got := len(h.player.LoadCalls()); got != 1 {
			t.Errorf("Load called %d times, want 1", got)
		}

		_ = h.eng.Play()
		if got := h.lastLoad(); got != "/music/c.mp3" {
			t.Errorf("Load src after Play = %q, want c", got)
		}
	})

	t.Run("last remaining entry goes idle", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 0, "a")

		_ = h.eng.Dequeue(0)

		if got := h.eng.State(); got != StateIdle {
			t.Errorf("State() = %v, want Idle", got)
		}
		if h.eng.CurrentTrack() != nil {
			t.Error("CurrentTrack() != nil")
		}
		if got := h.player.StopCount(); got != 1 {
			t.Errorf("Stop called %d times, want 1", got)
		}
	})

	t.Run("other entries keep pointer", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b", "c")

		_ = h.eng.Dequeue(0)
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
		_ = h.eng.Dequeue(1)
		if got := h.eng.QueueIndex(); got != 0 {
			t.Errorf("QueueIndex() = %d, want 0", got)
		}
		if got := currentID(h.eng); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		h := newHarness(t)
		if err := h.eng.Dequeue(0); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Dequeue() error = %v, want ErrIndexOutOfRange", err)
		}
	})
}

func TestEngine_ClearQueue(t *testing.T) {
	t.Run("queue track keeps playing detached", func(t *testing.T) {
		h := newHarness(t)
		h.playQueue(t, 1, "a", "b")

		h.eng.ClearQueue()

		if got := len(h.eng.Queue()); got != 0 {
			t.Errorf("Queue() len = %d, want 0", got)
		}
		if got := h.eng.QueueIndex(); got != -1 {
			t.Errorf("QueueIndex() = %d, want -1", got)
		}
		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}
		if got := currentID(h.eng); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
	})

	t.Run("ad-hoc track is unloaded", func(t *testing.T) {
		h := newHarness(t)
		_ = h.eng.Enqueue(track("a"))
		_ = h.eng.LoadAndPlay(track("x"), PlayOptions{})
		h.ready()

		h.eng.ClearQueue()

		if got := h.eng.State(); got != StateIdle {
			t.Errorf("State() = %v, want Idle", got)
		}
		if h.eng.CurrentTrack() != nil {
			t.Error("CurrentTrack() != nil")
		}
	})
}

func TestEngine_MoveUndoRedo(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 1, "a", "b", "c")

	_ = h.eng.Move(0, 2)
	if got := h.eng.QueueIndex(); got != 0 {
		t.Errorf("QueueIndex() after Move = %d, want 0", got)
	}

	if !h.eng.Undo() {
		t.Fatal("Undo() = false")
	}
	q := h.eng.Queue()
	if len(q) != 3 || q[0].ID != "a" {
		t.Errorf("Queue() after Undo = %v, want [a b c]", q)
	}
	if got := h.eng.QueueIndex(); got != 1 {
		t.Errorf("QueueIndex() after Undo = %d, want 1", got)
	}

	_ = h.eng.Undo()
	if got := len(h.eng.Queue()); got != 2 {
		t.Errorf("Queue() len after second Undo = %d, want 2", got)
	}

	if !h.eng.Redo() {
		t.Fatal("Redo() = false")
	}
	if got := len(h.eng.Queue()); got != 3 {
		t.Errorf("Queue() len after Redo = %d, want 3", got)
	}

	if err := h.eng.Move(0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Move() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestEngine_Modes(t *testing.T) {
	h := newHarness(t)

	if got := h.eng.CycleRepeat(); got != RepeatOne {
		t.Errorf("CycleRepeat() = %v, want one", got)
	}
	if !h.eng.ToggleShuffle() {
		t.Error("ToggleShuffle() = false, want true")
	}
	h.eng.SetRepeatMode(RepeatMode(42))
	if got := h.eng.RepeatMode(); got != RepeatNone {
		t.Errorf("RepeatMode() = %v, want none", got)
	}

	saved := h.store.Saved()
	if saved == nil || !saved.Shuffle || saved.RepeatMode != "none" {
		t.Errorf("saved snapshot = %+v, want shuffle on, repeat none", saved)
	}
}

func TestEngine_Persistence(t *testing.T) {
	h := newHarness(t)
	h.playQueue(t, 0, "a", "b")

	before := h.store.SyncSaveCount()
	_ = h.eng.Pause()
	if got := h.store.SyncSaveCount(); got != before+1 {
		t.Errorf("SyncSaveCount() = %d, want %d", got, before+1)
	}
	saved := h.store.Saved()
	if saved.IsPlaying || saved.SourceRef != "/music/a.mp3" || saved.CurrentIndex != 0 {
		t.Errorf("saved snapshot = %+v", saved)
	}

	_ = h.eng.Play()
	debounced := h.store.SaveCount()
	for i := 1; i <= 4; i++ {
		h.tick(time.Duration(i) * time.Second)
	}
	if got := h.store.SaveCount(); got != debounced {
		t.Errorf("SaveCount() after 4 ticks = %d, want %d", got, debounced)
	}
	h.tick(5 * time.Second)
	if got := h.store.SaveCount(); got != debounced+1 {
		t.Errorf("SaveCount() after 5 ticks = %d, want %d", got, debounced+1)
	}
	if got := h.store.Saved().Elapsed; got != 5*time.Second {
		t.Errorf("saved Elapsed = %v, want 5s", got)
	}
}

func restoreSnapshot(savedAt time.Time) *state.Snapshot {
	a, b := toQueueTrack(track("a")), toQueueTrack(track("b"))
	return &state.Snapshot{
		Tracks:       []state.QueueTrack{a, b},
		CurrentIndex: 1,
		Current:      &b,
		Volume:       0.8,
		Shuffle:      true,
		RepeatMode:   "all",
		IsPlaying:    true,
		Elapsed:      42 * time.Second,
		SourceRef:    b.AudioRef,
		SavedAt:      savedAt,
	}
}

func TestEngine_Restore(t *testing.T) {
	t.Run("fresh snapshot resumes", func(t *testing.T) {
		h := newHarness(t)
		now := h.clock.Now()
		h.store.SetSnapshot(restoreSnapshot(now.Add(-time.Minute)))

		if err := h.eng.Restore(now); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if got := h.lastLoad(); got != "/music/b.mp3" {
			t.Errorf("Load src = %q, want b", got)
		}
		if !h.eng.Shuffle() || h.eng.RepeatMode() != RepeatAll {
			t.Errorf("modes = shuffle %v repeat %v", h.eng.Shuffle(), h.eng.RepeatMode())
		}
		if got := h.eng.Volume(); got != 0.8 {
			t.Errorf("Volume() = %v, want 0.8", got)
		}

		h.ready()

		if got := h.player.SeekCalls(); len(got) != 1 || got[0] != 42*time.Second {
			t.Errorf("Seek calls = %v, want [42s]", got)
		}
		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}
		if got := h.eng.QueueIndex(); got != 1 {
			t.Errorf("QueueIndex() = %d, want 1", got)
		}
		notices := drainNotices(h.sub)
		if len(notices) != 1 || notices[0].Kind != NoticeRestored {
			t.Errorf("notices = %v, want restored", notices)
		}
	})

	t.Run("stale snapshot keeps queue only", func(t *testing.T) {
		h := newHarness(t)
		now := h.clock.Now()
		h.store.SetSnapshot(restoreSnapshot(now.Add(-11 * time.Minute)))

		_ = h.eng.Restore(now)

		if got := len(h.player.LoadCalls()); got != 0 {
			t.Errorf("Load called %d times, want 0", got)
		}
		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if got := currentID(h.eng); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
		if got := len(h.eng.Queue()); got != 2 {
			t.Errorf("Queue() len = %d, want 2", got)
		}
		if got := h.eng.Elapsed(); got != 0 {
			t.Errorf("Elapsed() = %v, want 0", got)
		}
	})

	t.Run("snapshot from the future is stale", func(t *testing.T) {
		h := newHarness(t)
		now := h.clock.Now()
		h.store.SetSnapshot(restoreSnapshot(now.Add(time.Minute)))

		_ = h.eng.Restore(now)

		if got := len(h.player.LoadCalls()); got != 0 {
			t.Errorf("Load called %d times, want 0", got)
		}
	})

	t.Run("blocked autoplay is silent", func(t *testing.T) {
		h := newHarness(t)
		h.player.SetPlayError(player.ErrOutputUnavailable)
		now := h.clock.Now()
		h.store.SetSnapshot(restoreSnapshot(now.Add(-time.Minute)))

		_ = h.eng.Restore(now)
		h.ready()

		if got := h.eng.State(); got != StatePaused {
			t.Errorf("State() = %v, want Paused", got)
		}
		if errs := drainErrors(h.sub); len(errs) != 0 {
			t.Errorf("error events = %v, want none", errs)
		}
		if got := h.eng.Elapsed(); got != 42*time.Second {
			t.Errorf("Elapsed() = %v, want 42s", got)
		}
	})

	t.Run("stored volume wins", func(t *testing.T) {
		h := newHarness(t)
		now := h.clock.Now()
		h.store.SetSnapshot(restoreSnapshot(now.Add(-time.Minute)))
		h.store.SetVolume(&state.VolumeState{Volume: 0.3, PreMute: 0.3})

		_ = h.eng.Restore(now)

		if got := h.eng.Volume(); got != 0.3 {
			t.Errorf("Volume() = %v, want 0.3", got)
		}
		if got := h.player.Volume(); got != 0.3 {
			t.Errorf("player volume = %v, want 0.3", got)
		}
	})

	t.Run("empty store", func(t *testing.T) {
		h := newHarness(t)

		if err := h.eng.Restore(h.clock.Now()); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if got := h.eng.State(); got != StateIdle {
			t.Errorf("State() = %v, want Idle", got)
		}
	})
}

func TestEngine_PlayByID(t *testing.T) {
	t.Run("plays looked up track", func(t *testing.T) {
		h := newHarness(t, WithLookup(catalog.NewMock(track("a"))))

		if err := h.eng.PlayByID(t.Context(), "a"); err != nil {
			t.Fatalf("PlayByID() error = %v", err)
		}
		if got := h.lastLoad(); got != "/music/a.mp3" {
			t.Errorf("Load src = %q, want a", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		h := newHarness(t, WithLookup(catalog.NewMock()))

		err := h.eng.PlayByID(t.Context(), "nope")
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("PlayByID() error = %v, want ErrNotFound", err)
		}
		if Classify(err) != SeverityTransient {
			t.Errorf("Classify() = %v, want transient", Classify(err))
		}
	})

	t.Run("no lookup configured", func(t *testing.T) {
		h := newHarness(t)
		if err := h.eng.PlayByID(t.Context(), "a"); !errors.Is(err, ErrNoLookup) {
			t.Errorf("PlayByID() error = %v, want ErrNoLookup", err)
		}
	})

	t.Run("superseded lookup is dropped", func(t *testing.T) {
		lookup := newGatedLookup(track("a"))
		h := newHarness(t, WithLookup(lookup))

		errc := make(chan error, 1)
		go func() { errc <- h.eng.PlayByID(t.Context(), "a") }()
		<-lookup.started

		_ = h.eng.LoadAndPlay(track("b"), PlayOptions{})
		close(lookup.release)

		if err := <-errc; !errors.Is(err, ErrStaleLookup) {
			t.Errorf("PlayByID() error = %v, want ErrStaleLookup", err)
		}
		if got := currentID(h.eng); got != "b" {
			t.Errorf("current = %q, want b", got)
		}
	})
}

func TestEngine_EnqueueByID(t *testing.T) {
	t.Run("appends looked up track", func(t *testing.T) {
		h := newHarness(t, WithLookup(catalog.NewMock(track("a"))))

		if err := h.eng.EnqueueByID(t.Context(), "a"); err != nil {
			t.Fatalf("EnqueueByID() error = %v", err)
		}
		if q := h.eng.Queue(); len(q) != 1 || q[0].ID != "a" {
			t.Errorf("Queue() = %v, want [a]", q)
		}
	})

	t.Run("clear during lookup drops result", func(t *testing.T) {
		lookup := newGatedLookup(track("a"))
		h := newHarness(t, WithLookup(lookup))

		errc := make(chan error, 1)
		go func() { errc <- h.eng.EnqueueByID(t.Context(), "a") }()
		<-lookup.started

		h.eng.ClearQueue()
		close(lookup.release)

		if err := <-errc; !errors.Is(err, ErrStaleLookup) {
			t.Errorf("EnqueueByID() error = %v, want ErrStaleLookup", err)
		}
		if got := len(h.eng.Queue()); got != 0 {
			t.Errorf("Queue() len = %d, want 0", got)
		}
	})

	t.Run("repeated request supersedes", func(t *testing.T) {
		lookup := newGatedLookup(track("a"))
		h := newHarness(t, WithLookup(lookup))

		errc := make(chan error, 2)
		go func() { errc <- h.eng.EnqueueByID(t.Context(), "a") }()
		<-lookup.started
		go func() { errc <- h.eng.EnqueueByID(t.Context(), "a") }()
		<-lookup.started
		close(lookup.release)

		var stale, ok int
		for range 2 {
			switch err := <-errc; {
			case err == nil:
				ok++
			case errors.Is(err, ErrStaleLookup):
				stale++
			default:
				t.Errorf("EnqueueByID() error = %v", err)
			}
		}
		if ok != 1 || stale != 1 {
			t.Errorf("results: %d ok, %d stale; want 1 and 1", ok, stale)
		}
		if got := len(h.eng.Queue()); got != 1 {
			t.Errorf("Queue() len = %d, want 1", got)
		}
	})
}

func TestEngine_RunPumpsPlayerEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go h.eng.Run(ctx)

		_ = h.eng.LoadAndPlay(track("a"), PlayOptions{})
		h.player.Emit(h.player.Ready(time.Minute))
		synctest.Wait()

		if got := h.eng.State(); got != StatePlaying {
			t.Errorf("State() = %v, want Playing", got)
		}

		cancel()
		synctest.Wait()
	})
}

func TestEngine_ClosedRejectsCommands(t *testing.T) {
	h := newHarness(t)
	_ = h.eng.Close()

	if err := h.eng.Play(); !errors.Is(err, ErrClosed) {
		t.Errorf("Play() error = %v, want ErrClosed", err)
	}
	if err := h.eng.Enqueue(track("a")); !errors.Is(err, ErrClosed) {
		t.Errorf("Enqueue() error = %v, want ErrClosed", err)
	}
	select {
	case <-h.sub.Done:
	default:
		t.Error("subscription not closed")
	}
}
