package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
	"github.com/samber/lo"
)

// silentGain is the beep gain used for a zero level; Silent mutes it anyway.
const silentGain = -10

// SetVolume sets the output level in [0, 1].
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLevel = ClampVolume(level)
	p.applyVolumeLocked()
}

// Volume returns the output level.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

func (p *Player) applyVolumeLocked() {
	if p.volume == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	p.volume.Volume = gain(p.volumeLevel)
	p.volume.Silent = p.volumeLevel <= 0
}

// ClampVolume forces level into [0, 1]; NaN becomes 0.
func ClampVolume(level float64) float64 {
	if math.IsNaN(level) {
		return 0
	}
	return lo.Clamp(level, 0, 1)
}

// gain maps a linear level to beep's base-2 gain, where each step of -1
// halves the amplitude.
func gain(level float64) float64 {
	switch {
	case level <= 0:
		return silentGain
	case level >= 1:
		return 0
	}
	return math.Log2(level)
}
