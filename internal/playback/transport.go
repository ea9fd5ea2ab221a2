package playback

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// LoadAndPlay makes t the current track and starts it. Playing the track
// that is already current toggles play/pause instead of reloading it.
func (e *Engine) LoadAndPlay(t playlist.Track, opts PlayOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.playGen++
	return e.loadAndPlayLocked(t, opts)
}

func (e *Engine) loadAndPlayLocked(t playlist.Track, opts PlayOptions) error {
	if e.current != nil && e.current.ID == t.ID {
		return e.toggleLocked()
	}

	prevIndex := e.queue.CurrentIndex()
	index := e.queue.IndexOf(t.ID)
	switch {
	case opts.ClearQueue:
		e.queue.Replace(t)
		e.recordHistoryLocked()
		index = 0
	case opts.HasIndex:
		if opts.QueueIndex < 0 || opts.QueueIndex >= e.queue.Len() {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, opts.QueueIndex)
		}
		// A position holding a different track is ignored.
		if e.queue.At(opts.QueueIndex).ID == t.ID {
			index = opts.QueueIndex
		}
	}
	return e.loadLocked(t, index, prevIndex, true)
}

// loadLocked makes t current at queue position index (-1 detaches the
// pointer) and starts loading its media.
func (e *Engine) loadLocked(t playlist.Track, index, prevIndex int, autoplay bool) error {
	prev := e.currentCopyLocked()
	if index >= 0 {
		e.queue.JumpTo(index)
	} else {
		e.queue.Detach()
	}
	e.fromQueue = index >= 0

	track := t
	e.current = &track
	e.elapsed = 0
	e.duration = t.DurationHint
	e.sourceRef = t.AudioRef
	e.quietStart = false

	if prev == nil || prev.ID != t.ID {
		e.emitTrackLocked(prev, prevIndex)
	}
	e.emitQueueLocked()
	e.emitPositionLocked()

	if !t.Playable() {
		e.unloadMediaLocked()
		e.setStateLocked(StatePaused)
		e.persistLocked()
		return fmt.Errorf("play %s: %w", t.ID, ErrNoAudioRef)
	}
	return e.startLoadLocked(t.AudioRef, autoplay, 0)
}

// startLoadLocked hands src to the player. Playback starts, or the state
// settles on Paused, once the matching Ready event arrives.
func (e *Engine) startLoadLocked(src string, autoplay bool, startAt time.Duration) error {
	e.gen++
	e.loaded = false
	e.pendingPlay = autoplay
	e.pendingSeek = startAt
	e.sourceRef = src

	// Volume goes first so a restored level or mute survives track changes.
	e.player.SetVolume(e.volume)
	seq, err := e.player.Load(src)
	e.mediaSeq = seq
	if err != nil {
		e.pendingPlay = false
		e.setStateLocked(StatePaused)
		e.persistLocked()
		return fmt.Errorf("load %s: %w", src, err)
	}
	e.setStateLocked(StateLoading)
	e.persistLocked()
	return nil
}

// unloadMediaLocked stops the player and forgets the outstanding load.
func (e *Engine) unloadMediaLocked() {
	e.player.Stop()
	e.loaded = false
	e.mediaSeq = 0
	e.pendingPlay = false
	e.pendingSeek = 0
}

// startLocked issues play on a loaded source. On failure the engine stays
// Paused with its track identity intact.
func (e *Engine) startLocked() error {
	if err := e.player.Play(); err != nil {
		e.setStateLocked(StatePaused)
		e.persistNowLocked()
		return fmt.Errorf("start playback: %w", err)
	}
	e.setStateLocked(StatePlaying)
	e.recordPlayLocked()
	e.persistNowLocked()
	return nil
}

// recordPlayLocked notifies the recorder once per load generation.
func (e *Engine) recordPlayLocked() {
	if e.recorder == nil || e.current == nil || e.recordedGen == e.gen {
		return
	}
	e.recordedGen = e.gen
	track := *e.current
	rec := e.recorder
	timeout := e.cfg.RecordTimeout
	e.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := rec.RecordPlay(ctx, track); err != nil {
			log.WithField("track", track.ID).WithError(err).Warn("record play")
		}
	})
}

// Play starts or resumes the current track.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.playLocked()
}

func (e *Engine) playLocked() error {
	if e.current == nil {
		return ErrNothingToPlay
	}
	switch e.state {
	case StatePlaying:
		return nil
	case StateLoading:
		e.pendingPlay = true
		return nil
	}
	if !e.loaded {
		if !e.current.Playable() {
			return fmt.Errorf("play %s: %w", e.current.ID, ErrNoAudioRef)
		}
		return e.startLoadLocked(e.current.AudioRef, true, e.elapsed)
	}
	return e.startLocked()
}

// Pause pauses playback. Pausing a track that is still loading cancels its
// autoplay.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.pauseLocked()
}

func (e *Engine) pauseLocked() error {
	switch e.state {
	case StatePlaying:
		e.player.Pause()
		e.elapsed = e.clampPosition(e.player.Position())
		e.setStateLocked(StatePaused)
		e.persistNowLocked()
	case StateLoading:
		e.pendingPlay = false
		e.persistNowLocked()
	case StateIdle:
		return ErrNothingToPlay
	}
	return nil
}

// TogglePlay toggles between playing and paused.
func (e *Engine) TogglePlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.toggleLocked()
}

func (e *Engine) toggleLocked() error {
	if e.state == StatePlaying || (e.state == StateLoading && e.pendingPlay) {
		return e.pauseLocked()
	}
	return e.playLocked()
}

// Next advances through the queue, wrapping at the end. With shuffle on a
// different position is picked at random.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.playGen++
	if e.queue.IsEmpty() {
		return ErrQueueEmpty
	}
	return e.advanceLocked(e.queue.NextIndex(e.shuffle, e.rnd))
}

// Previous restarts the current track when more than the restart threshold
// has elapsed, otherwise moves back through the queue.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.playGen++
	if e.queue.IsEmpty() {
		return ErrQueueEmpty
	}
	if e.current != nil && e.elapsed > e.cfg.PreviousRestartThreshold {
		return e.restartLocked()
	}
	return e.advanceLocked(e.queue.PreviousIndex(e.shuffle, e.rnd))
}

// advanceLocked plays the queue entry at index. Landing on the current
// track (single-entry queue) restarts it.
func (e *Engine) advanceLocked(index int) error {
	t := e.queue.At(index)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if e.current != nil && e.current.ID == t.ID && e.queue.CurrentIndex() == index {
		return e.restartLocked()
	}
	return e.loadLocked(*t, index, e.queue.CurrentIndex(), true)
}

// restartLocked plays the current track from the beginning.
func (e *Engine) restartLocked() error {
	if e.current == nil {
		return ErrNothingToPlay
	}
	if !e.loaded {
		if !e.current.Playable() {
			return fmt.Errorf("play %s: %w", e.current.ID, ErrNoAudioRef)
		}
		e.elapsed = 0
		e.emitPositionLocked()
		return e.startLoadLocked(e.current.AudioRef, true, 0)
	}
	if err := e.player.Seek(0); err != nil {
		log.WithField("track", e.current.ID).WithError(err).Debug("seek to start failed, reloading")
		e.elapsed = 0
		return e.startLoadLocked(e.current.AudioRef, true, 0)
	}
	e.elapsed = 0
	e.seekGuard = e.now().Add(e.cfg.SeekGrace)
	e.emitPositionLocked()
	return e.startLocked()
}

// Seek moves to an absolute position, clamped to [0, duration].
func (e *Engine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.seekLocked(pos)
}

// SeekFraction seeks to a fraction of the track duration.
func (e *Engine) SeekFraction(f float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.duration <= 0 {
		return ErrNoTrack
	}
	return e.seekLocked(time.Duration(clampUnit(f) * float64(e.duration)))
}

func (e *Engine) seekLocked(pos time.Duration) error {
	if e.current == nil {
		return ErrNoTrack
	}
	pos = e.clampPosition(pos)

	switch {
	case e.state == StateLoading:
		e.pendingSeek = pos
	case e.loaded:
		if err := e.player.Seek(pos); err != nil {
			return fmt.Errorf("seek: %w", err)
		}
		e.seekGuard = e.now().Add(e.cfg.SeekGrace)
	}
	// Unloaded tracks start from elapsed on the next Play.
	e.elapsed = pos
	e.emitPositionLocked()
	e.persistLocked()
	return nil
}

func (e *Engine) clampPosition(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if e.duration > 0 && pos > e.duration {
		return e.duration
	}
	return pos
}
