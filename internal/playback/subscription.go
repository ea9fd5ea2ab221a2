package playback

const eventBufferSize = 16

// Subscription is one subscriber's view of engine events. Each kind of
// event has its own buffered channel; a slow reader loses events rather
// than stalling the engine. Done is closed when the engine shuts down.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	VolumeChanged   <-chan VolumeChange
	Error           <-chan ErrorEvent
	Notice          <-chan Notice
	Done            <-chan struct{}

	state    chan StateChange
	track    chan TrackChange
	position chan PositionChange
	queue    chan QueueChange
	mode     chan ModeChange
	volume   chan VolumeChange
	errs     chan ErrorEvent
	notice   chan Notice
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		track:    make(chan TrackChange, eventBufferSize),
		position: make(chan PositionChange, eventBufferSize),
		queue:    make(chan QueueChange, eventBufferSize),
		mode:     make(chan ModeChange, eventBufferSize),
		volume:   make(chan VolumeChange, eventBufferSize),
		errs:     make(chan ErrorEvent, eventBufferSize),
		notice:   make(chan Notice, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged = s.state, s.track, s.position
	s.QueueChanged, s.ModeChanged, s.VolumeChanged = s.queue, s.mode, s.volume
	s.Error, s.Notice, s.Done = s.errs, s.notice, s.done
	return s
}

func (s *Subscription) close() { close(s.done) }

// offer sends v unless ch is full, in which case v is dropped.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// offerLatest sends v, evicting the oldest buffered value when ch is full.
// Only the engine sends, so one eviction always makes room.
func offerLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	offer(ch, v)
}

func (s *Subscription) sendState(e StateChange) { offer(s.state, e) }
func (s *Subscription) sendTrack(e TrackChange) { offer(s.track, e) }
func (s *Subscription) sendQueue(e QueueChange) { offer(s.queue, e) }
func (s *Subscription) sendMode(e ModeChange) { offer(s.mode, e) }
func (s *Subscription) sendVolume(e VolumeChange) { offer(s.volume, e) }
func (s *Subscription) sendError(e ErrorEvent) { offer(s.errs, e) }
func (s *Subscription) sendNotice(e Notice) { offer(s.notice, e) }

// sendPosition keeps the newest positions; stale ticks are worthless.
func (s *Subscription) sendPosition(e PositionChange) { offerLatest(s.position, e) }
