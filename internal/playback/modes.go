package playback

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/state"
)

// SetVolume sets the volume, clamped to [0, 1], and persists it
// immediately. Setting a volume clears mute.
func (e *Engine) SetVolume(v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.volume = player.ClampVolume(v)
	e.muted = false
	e.applyVolumeLocked()
	return nil
}

// ToggleMute mutes, remembering the current level, or restores the
// remembered level.
func (e *Engine) ToggleMute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.muted {
		e.volume = e.preMute
		if e.volume <= 0 {
			e.volume = 1
		}
		e.muted = false
	} else {
		e.preMute = e.volume
		e.volume = 0
		e.muted = true
	}
	e.applyVolumeLocked()
	return nil
}

func (e *Engine) applyVolumeLocked() {
	e.player.SetVolume(e.volume)
	e.emitVolumeLocked()
	err := e.store.SaveVolume(state.VolumeState{
		Volume:  e.volume,
		Muted:   e.muted,
		PreMute: e.preMute,
	})
	if err != nil {
		log.WithError(err).Warn("save volume")
	}
	e.persistLocked()
}

// ToggleShuffle flips shuffle and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffle = !e.shuffle
	e.emitModeLocked()
	e.persistLocked()
	return e.shuffle
}

// CycleRepeat moves to the next repeat mode and returns it.
func (e *Engine) CycleRepeat() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = e.repeat.Next()
	e.emitModeLocked()
	e.persistLocked()
	return e.repeat
}

// SetRepeatMode sets the repeat mode. Unknown modes become RepeatNone.
func (e *Engine) SetRepeatMode(mode RepeatMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !mode.Valid() {
		mode = RepeatNone
	}
	if e.repeat == mode {
		return
	}
	e.repeat = mode
	e.emitModeLocked()
	e.persistLocked()
}

// clampUnit clamps f into [0, 1]. NaN becomes 0.
func clampUnit(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Min(math.Max(f, 0), 1)
}
