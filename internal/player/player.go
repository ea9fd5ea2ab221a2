package player

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	log "github.com/sirupsen/logrus"
)

const (
	eventBufferSize     = 64
	defaultTickInterval = 250 * time.Millisecond
	defaultHTTPTimeout  = 30 * time.Second
)

// Player is the beep-backed media primitive. Sources are decoded in the
// background; readiness, ticks, completion and failures are delivered on
// Events.
type Player struct {
	mu sync.Mutex

	state    State
	seq      uint64
	source   string
	closer   io.Closer
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool // stream currently handed to the speaker

	volumeLevel float64

	client       *http.Client
	tickInterval time.Duration
	events       chan Event
	done         chan struct{}
	closeOnce    sync.Once
}

// Option configures a Player.
type Option func(*Player)

// WithTickInterval sets how often position ticks are emitted while playing.
func WithTickInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.tickInterval = d
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) { p.client = c }
}

// New creates a player and starts its tick loop.
func New(opts ...Option) *Player {
	p := &Player{
		state:        Stopped,
		volumeLevel:  1,
		client:       &http.Client{Timeout: defaultHTTPTimeout},
		tickInterval: defaultTickInterval,
		events:       make(chan Event, eventBufferSize),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.tickLoop()
	return p
}

// Events returns the media event channel.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Load replaces the current source and starts decoding src in the
// background. The returned sequence tags every event for this source.
func (p *Player) Load(src string) (uint64, error) {
	p.mu.Lock()
	p.releaseLocked()
	p.seq++
	seq := p.seq
	if src == "" {
		p.state = Stopped
		p.mu.Unlock()
		return seq, ErrEmptySource
	}
	p.source = src
	p.state = Loading
	p.mu.Unlock()

	go p.open(seq, src)
	return seq, nil
}

func (p *Player) open(seq uint64, src string) {
	dec, err := p.decode(src)
	if err != nil {
		log.WithField("source", src).Debugf("decode failed: %v", err)
		p.mu.Lock()
		stale := seq != p.seq
		if !stale {
			p.state = Stopped
		}
		p.mu.Unlock()
		if !stale {
			p.emit(Event{Kind: EventError, Seq: seq, Err: err})
		}
		return
	}

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		dec.close()
		return
	}
	p.closer = dec.closer
	p.streamer = dec.streamer
	p.format = dec.format
	p.ctrl = &beep.Ctrl{Streamer: dec.playable(), Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.applyVolumeLocked()
	p.state = Paused
	duration := p.format.SampleRate.D(p.streamer.Len())
	p.mu.Unlock()

	p.emit(Event{Kind: EventReady, Seq: seq, Duration: duration})
}

// State returns the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close stops playback and the tick loop.
func (p *Player) Close() error {
	p.Stop()
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

func (p *Player) emit(e Event) {
	if e.Kind == EventTick {
		select {
		case p.events <- e:
		default:
			// Drop ticks when the consumer lags
		}
		return
	}
	select {
	case p.events <- e:
	case <-p.done:
	}
}

func (p *Player) tickLoop() {
	ticker := time.NewTicker(p.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.state != Playing || p.streamer == nil {
				p.mu.Unlock()
				continue
			}
			seq := p.seq
			pos, dur := p.positionLocked(), p.durationLocked()
			p.mu.Unlock()
			p.emit(Event{Kind: EventTick, Seq: seq, Position: pos, Duration: dur})
		}
	}
}
