package playback

import (
	"errors"

	"github.com/llehouerou/wavestream/internal/player"
)

// HandleMediaEvent applies a player callback. Events that belong to a
// superseded load are dropped.
func (e *Engine) HandleMediaEvent(ev player.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.mediaSeq == 0 || ev.Seq != e.mediaSeq {
		return
	}

	switch ev.Kind {
	case player.EventReady:
		e.onReadyLocked(ev)
	case player.EventTick:
		e.onTickLocked(ev)
	case player.EventEnded:
		e.onEndedLocked()
	case player.EventError:
		e.onErrorLocked(ev)
	}
}

func (e *Engine) onReadyLocked(ev player.Event) {
	if e.state != StateLoading {
		return
	}
	e.loaded = true
	if ev.Duration > 0 {
		e.duration = ev.Duration
	}

	if e.pendingSeek > 0 {
		pos := e.clampPosition(e.pendingSeek)
		e.pendingSeek = 0
		if err := e.player.Seek(pos); err == nil {
			e.elapsed = pos
			e.seekGuard = e.now().Add(e.cfg.SeekGrace)
		} else {
			e.elapsed = 0
		}
	}
	e.emitPositionLocked()

	if !e.pendingPlay {
		e.setStateLocked(StatePaused)
		e.persistLocked()
		return
	}
	e.pendingPlay = false
	if err := e.startLocked(); err != nil && !e.quietStart {
		e.reportLocked("play", err)
	}
	e.quietStart = false
}

func (e *Engine) onTickLocked(ev player.Event) {
	if e.state != StatePlaying {
		return
	}
	now := e.now()
	if now.Before(e.seekGuard) {
		return
	}
	if ev.Duration > 0 {
		e.duration = ev.Duration
	}
	e.elapsed = e.clampPosition(ev.Position)
	e.emitPositionLocked()

	if now.Sub(e.lastPersist) >= e.cfg.PersistInterval {
		e.persistLocked()
	}
}

// onEndedLocked applies the end-of-track policy.
func (e *Engine) onEndedLocked() {
	if e.current == nil {
		return
	}

	var err error
	switch {
	case e.repeat == RepeatOne:
		err = e.restartLocked()
	case e.repeat == RepeatAll || e.shuffle:
		if e.queue.IsEmpty() {
			e.finishLocked()
			return
		}
		next := e.queue.NextIndex(e.shuffle, e.rnd)
		// Shuffle alone never replays the slot that just ended.
		if e.repeat != RepeatAll && next == e.queue.CurrentIndex() {
			e.finishLocked()
			return
		}
		err = e.advanceLocked(next)
	case e.queue.HasNext():
		err = e.advanceLocked(e.queue.CurrentIndex() + 1)
	default:
		e.finishLocked()
		return
	}
	if err != nil {
		e.reportLocked("advance", err)
	}
}

// finishLocked stops at the end of the queue without wrapping.
func (e *Engine) finishLocked() {
	if e.loaded {
		_ = e.player.Seek(0) //nolint:errcheck // best effort rewind, Play reloads otherwise
	}
	e.elapsed = 0
	e.setStateLocked(StatePaused)
	e.emitPositionLocked()
	e.persistNowLocked()
	e.noticeLocked(NoticeFinished, "Playback finished")
}

func (e *Engine) onErrorLocked(ev player.Event) {
	e.loaded = false
	e.mediaSeq = 0
	e.pendingPlay = false
	e.pendingSeek = 0
	e.setStateLocked(StatePaused)
	e.persistNowLocked()

	err := ev.Err
	if err == nil {
		err = errors.New("media error")
	}
	e.reportLocked("load", err)
}
