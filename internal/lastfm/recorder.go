package lastfm

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/playlist"
)

const (
	minScrobbleLength = 30 * time.Second
	maxScrobbleDelay  = 4 * time.Minute
)

type scrobbler interface {
	UpdateNowPlaying(track ScrobbleTrack) error
	Scrobble(track ScrobbleTrack) error
}

// Recorder sends "now playing" when a track starts and scrobbles it once it
// has been played for half its length (at most four minutes). Paused time
// does not count. Starting another track cancels a scrobble that has not
// fired yet.
type Recorder struct {
	api scrobbler
	now func() time.Time

	mu        sync.Mutex
	gen       uint64
	pending   *ScrobbleTrack
	trackID   string
	remaining time.Duration
	playing   bool
	resumedAt time.Time
	timer     *time.Timer
}

// NewRecorder creates a recorder backed by client.
func NewRecorder(client *Client) *Recorder {
	return newRecorder(client, time.Now)
}

func newRecorder(api scrobbler, now func() time.Time) *Recorder {
	return &Recorder{api: api, now: now}
}

// RecordPlay implements catalog.Recorder.
func (r *Recorder) RecordPlay(_ context.Context, t playlist.Track) error {
	st := ScrobbleTrack{
		Artist:   t.DisplayArtist(),
		Track:    t.DisplayTitle(),
		Duration: t.DurationHint,
		Started:  r.now(),
	}

	r.mu.Lock()
	r.resetLocked()
	if delay, ok := scrobbleDelay(t.DurationHint); ok {
		r.pending = &st
		r.trackID = t.ID
		r.remaining = delay
		r.playing = true
		r.armLocked()
	}
	r.mu.Unlock()

	return r.api.UpdateNowPlaying(st)
}

// SetPlaying pauses or resumes the countdown of the pending scrobble.
func (r *Recorder) SetPlaying(playing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil || playing == r.playing {
		return
	}
	r.playing = playing
	if playing {
		r.armLocked()
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.remaining -= r.now().Sub(r.resumedAt)
}

// Stop cancels a pending scrobble.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Recorder) resetLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = nil
	r.trackID = ""
	r.remaining = 0
	r.playing = false
}

func (r *Recorder) armLocked() {
	r.resumedAt = r.now()
	gen := r.gen
	r.timer = time.AfterFunc(max(r.remaining, 0), func() { r.fire(gen) })
}

func (r *Recorder) fire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen || r.pending == nil || !r.playing {
		r.mu.Unlock()
		return
	}
	st, id := *r.pending, r.trackID
	r.pending = nil
	r.timer = nil
	r.mu.Unlock()

	if err := r.api.Scrobble(st); err != nil {
		log.WithField("track", id).WithError(err).Warn("lastfm scrobble")
	}
}

// scrobbleDelay returns how long a track must play before it is scrobbled.
// Tracks of unknown length or shorter than 30 seconds are never scrobbled.
func scrobbleDelay(d time.Duration) (time.Duration, bool) {
	if d < minScrobbleLength {
		return 0, false
	}
	return min(d/2, maxScrobbleDelay), true
}
