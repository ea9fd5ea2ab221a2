package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker initializes the shared speaker once, at the rate of the
// first decoded source.
func initSpeaker(format beep.Format) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputUnavailable, err)
	}
	speakerSampleRate = format.SampleRate
	speakerInitialized = true
	return nil
}

// outputRate returns the speaker rate, or zero before the first init.
func outputRate() beep.SampleRate {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerSampleRate
}

// Play starts or resumes the loaded source.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.IsLoaded() || p.streamer == nil {
		return ErrNotLoaded
	}
	if p.state == Playing {
		return nil
	}
	if err := initSpeaker(p.format); err != nil {
		return err
	}

	if !p.queued {
		seq := p.seq
		p.queued = true
		speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
			// Runs on the speaker goroutine; hand off before taking p.mu.
			go p.finished(seq)
		})))
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
	return nil
}

func (p *Player) finished(seq uint64) {
	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	p.queued = false
	p.state = Paused
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	p.mu.Unlock()

	p.emit(Event{Kind: EventEnded, Seq: seq})
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanPause() || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Stop discards the current source.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Stopped && p.streamer == nil {
		return
	}
	p.releaseLocked()
	// Invalidate pending decodes and completion callbacks.
	p.seq++
	p.state = Stopped
}

func (p *Player) releaseLocked() {
	if p.queued {
		speaker.Clear()
		p.queued = false
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.closer != nil {
		p.closer.Close()
		p.closer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.source = ""
}

// Seek moves playback to an absolute position, clamped to the stream.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return ErrNotLoaded
	}

	sample := max(p.format.SampleRate.N(pos), 0)
	if length := p.streamer.Len(); sample >= length {
		sample = max(length-1, 0)
	}

	speaker.Lock()
	defer speaker.Unlock()
	return p.streamer.Seek(sample)
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration returns the length of the loaded source.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.durationLocked()
}

func (p *Player) durationLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}
