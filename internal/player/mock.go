// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Player. Loads complete only when a test
// feeds the event returned by Ready (or Fail) back to the consumer.
type Mock struct {
	mu sync.Mutex

	state      State
	seq        uint64
	volume     float64
	position   time.Duration
	duration   time.Duration
	loadErr    error
	playErr    error
	seekErr    error
	loadCalls  []string
	seekCalls  []time.Duration
	playCount  int
	pauseCount int
	stopCount  int
	events     chan Event
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		volume: 1,
		events: make(chan Event, eventBufferSize),
	}
}

func (m *Mock) Load(src string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, src)
	m.seq++
	m.position = 0
	if src == "" {
		m.state = Stopped
		return m.seq, ErrEmptySource
	}
	if m.loadErr != nil {
		m.state = Stopped
		return m.seq, m.loadErr
	}
	m.state = Loading
	return m.seq, nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCount++
	if m.playErr != nil {
		return m.playErr
	}
	if !m.state.IsLoaded() {
		return ErrNotLoaded
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCount++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCount++
	m.seq++
	m.state = Stopped
	m.position = 0
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	if m.seekErr != nil {
		return m.seekErr
	}
	if !m.state.IsLoaded() {
		return ErrNotLoaded
	}
	m.position = pos
	return nil
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = ClampVolume(level)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error { return nil }

// Test helpers

// Ready marks the current load as decoded and returns its Ready event.
func (m *Mock) Ready(duration time.Duration) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Paused
	m.duration = duration
	return Event{Kind: EventReady, Seq: m.seq, Duration: duration}
}

// Tick moves the position and returns the matching tick event.
func (m *Mock) Tick(pos time.Duration) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
	return Event{Kind: EventTick, Seq: m.seq, Position: pos, Duration: m.duration}
}

// Ended simulates the stream draining.
func (m *Mock) Ended() Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Paused
	m.position = m.duration
	return Event{Kind: EventEnded, Seq: m.seq}
}

// Fail simulates a decode failure for the current load.
func (m *Mock) Fail(err error) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
	return Event{Kind: EventError, Seq: m.seq, Err: err}
}

// Emit pushes an event onto the Events channel.
func (m *Mock) Emit(e Event) { m.events <- e }

func (m *Mock) Seq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCount
}

func (m *Mock) PauseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCount
}

func (m *Mock) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCount
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
