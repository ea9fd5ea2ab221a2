package playback

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
)

func toQueueTrack(t playlist.Track) state.QueueTrack {
	return state.QueueTrack{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       t.ArtistName,
		CoverRef:     t.CoverRef,
		AudioRef:     t.AudioRef,
		DurationHint: t.DurationHint,
	}
}

func fromQueueTrack(t state.QueueTrack) playlist.Track {
	return playlist.Track{
		ID:           t.ID,
		Title:        t.Title,
		ArtistName:   t.Artist,
		CoverRef:     t.CoverRef,
		AudioRef:     t.AudioRef,
		DurationHint: t.DurationHint,
	}
}

func (e *Engine) snapshotLocked() state.Snapshot {
	s := state.Snapshot{
		Tracks: lo.Map(e.queue.Tracks(), func(t playlist.Track, _ int) state.QueueTrack {
			return toQueueTrack(t)
		}),
		CurrentIndex: e.queue.CurrentIndex(),
		Volume:       e.volume,
		Shuffle:      e.shuffle,
		RepeatMode:   e.repeat.String(),
		IsPlaying:    e.state == StatePlaying || (e.state == StateLoading && e.pendingPlay),
		Elapsed:      e.elapsed,
		SourceRef:    e.sourceRef,
		SavedAt:      e.now(),
	}
	if e.current != nil {
		cur := toQueueTrack(*e.current)
		s.Current = &cur
	}
	return s
}

// persistLocked schedules a debounced snapshot write.
func (e *Engine) persistLocked() {
	e.store.SaveSnapshot(e.snapshotLocked())
	e.lastPersist = e.now()
}

// persistNowLocked writes the snapshot synchronously, for explicit
// transport changes.
func (e *Engine) persistNowLocked() {
	if err := e.store.SaveSnapshotNow(e.snapshotLocked()); err != nil {
		log.WithError(err).Warn("save player state")
	}
	e.lastPersist = e.now()
}

// Restore loads the persisted state. Queue, current track and modes are
// always restored; the media position is resumed only when the snapshot is
// younger than the resume cutoff. A blocked autoplay settles on Paused
// without reporting an error.
func (e *Engine) Restore(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	snap, err := e.store.GetSnapshot()
	if err != nil {
		return fmt.Errorf("read player state: %w", err)
	}
	vol, err := e.store.GetVolume()
	if err != nil {
		return fmt.Errorf("read volume: %w", err)
	}

	// The separately stored volume wins over the snapshot's copy.
	switch {
	case vol != nil:
		e.volume = player.ClampVolume(vol.Volume)
		e.muted = vol.Muted
		e.preMute = player.ClampVolume(vol.PreMute)
	case snap != nil:
		e.volume = player.ClampVolume(snap.Volume)
	}
	e.player.SetVolume(e.volume)
	e.emitVolumeLocked()

	if snap == nil {
		return nil
	}

	tracks := lo.Map(snap.Tracks, func(t state.QueueTrack, _ int) playlist.Track {
		return fromQueueTrack(t)
	})
	e.queue.SetTracks(tracks, snap.CurrentIndex)
	e.history = playlist.NewQueueHistory(max(e.cfg.HistorySize, 1))
	e.history.Record(e.queue)

	e.shuffle = snap.Shuffle
	repeat, err := ParseRepeatMode(snap.RepeatMode)
	if err != nil {
		log.WithError(err).Warn("restore repeat mode")
	}
	e.repeat = repeat

	var current *playlist.Track
	switch {
	case snap.Current != nil:
		t := fromQueueTrack(*snap.Current)
		current = &t
	case e.queue.Current() != nil:
		t := *e.queue.Current()
		current = &t
	}
	if current != nil {
		// Keep the pointer consistent with the restored track.
		if qc := e.queue.Current(); qc == nil || qc.ID != current.ID {
			if i := e.queue.IndexOf(current.ID); i >= 0 {
				e.queue.JumpTo(i)
			} else {
				e.queue.Detach()
			}
		}
	}

	e.emitQueueLocked()
	e.emitModeLocked()
	if len(tracks) > 0 || current != nil {
		e.noticeLocked(NoticeRestored, fmt.Sprintf("Restored %d queued tracks from %s",
			len(tracks), humanize.RelTime(snap.SavedAt, now, "ago", "from now")))
	}

	if current == nil {
		e.setStateLocked(StateIdle)
		return nil
	}

	e.current = current
	e.fromQueue = e.queue.CurrentIndex() >= 0
	e.duration = current.DurationHint
	e.elapsed = 0
	e.sourceRef = snap.SourceRef
	if e.sourceRef == "" {
		e.sourceRef = current.AudioRef
	}
	e.emitTrackLocked(nil, -1)

	age := now.Sub(snap.SavedAt)
	fresh := !snap.SavedAt.IsZero() && age >= 0 && age <= e.cfg.ResumeCutoff
	if !fresh || snap.SourceRef == "" {
		e.loaded = false
		e.setStateLocked(StatePaused)
		e.emitPositionLocked()
		return nil
	}

	e.elapsed = e.clampPosition(snap.Elapsed)
	e.emitPositionLocked()
	if err := e.startLoadLocked(snap.SourceRef, snap.IsPlaying, e.elapsed); err != nil {
		log.WithField("track", current.ID).WithError(err).Warn("resume playback")
		return nil
	}
	e.quietStart = true
	return nil
}
