//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavestream/internal/playback"
)

const trackPathPrefix = "/org/mpris/MediaPlayer2/Track/"

// player serves org.mpris.MediaPlayer2.Player plus the LoopStatus and
// Shuffle extensions.
type player struct {
	service playback.Service
}

func micros(d time.Duration) types.Microseconds { return types.Microseconds(d.Microseconds()) }

func fromMicros(us types.Microseconds) time.Duration { return time.Duration(us) * time.Microsecond }

func (p *player) Play() error { return p.service.Play() }
func (p *player) Pause() error { return p.service.Pause() }
func (p *player) PlayPause() error { return p.service.TogglePlay() }
func (p *player) Next() error { return p.service.Next() }
func (p *player) Previous() error { return p.service.Previous() }

// Stop pauses; the engine keeps the track loaded.
func (p *player) Stop() error { return p.service.Pause() }

func (p *player) Seek(offset types.Microseconds) error {
	return p.service.Seek(p.service.Elapsed() + fromMicros(offset))
}

func (p *player) SetPosition(_ string, pos types.Microseconds) error {
	return p.service.Seek(fromMicros(pos))
}

//nolint:revive // name fixed by the MPRIS interface
func (p *player) OpenUri(string) error { return nil }

func (p *player) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.State()), nil
}

func (p *player) Metadata() (types.Metadata, error) {
	t := p.service.CurrentTrack()
	if t == nil {
		return types.Metadata{}, nil
	}
	return types.Metadata{
		TrackId: trackPath(t.ID),
		Length:  micros(p.service.Duration()),
		Title:   t.DisplayTitle(),
		Artist:  []string{t.DisplayArtist()},
		ArtUrl:  ArtURL(t.CoverRef),
	}, nil
}

func (p *player) Position() (int64, error) { return p.service.Elapsed().Microseconds(), nil }

func (p *player) Volume() (float64, error) { return p.service.Volume(), nil }

func (p *player) SetVolume(v float64) error { return p.service.SetVolume(v) }

// Playback rate is fixed.
func (p *player) Rate() (float64, error) { return 1, nil }
func (p *player) SetRate(float64) error { return nil }
func (p *player) MinimumRate() (float64, error) { return 1, nil }
func (p *player) MaximumRate() (float64, error) { return 1, nil }

// Next and Previous wrap, so any non-empty queue can move either way.
func (p *player) CanGoNext() (bool, error) { return len(p.service.Queue()) > 0, nil }
func (p *player) CanGoPrevious() (bool, error) { return len(p.service.Queue()) > 0, nil }

func (p *player) CanPlay() (bool, error) { return p.service.CurrentTrack() != nil, nil }
func (p *player) CanPause() (bool, error) { return true, nil }
func (p *player) CanSeek() (bool, error) { return p.service.Duration() > 0, nil }
func (p *player) CanControl() (bool, error) { return true, nil }

var loopStatuses = map[playback.RepeatMode]types.LoopStatus{
	playback.RepeatNone: types.LoopStatusNone,
	playback.RepeatOne:  types.LoopStatusTrack,
	playback.RepeatAll:  types.LoopStatusPlaylist,
}

func (p *player) LoopStatus() (types.LoopStatus, error) {
	if s, ok := loopStatuses[p.service.RepeatMode()]; ok {
		return s, nil
	}
	return types.LoopStatusNone, nil
}

func (p *player) SetLoopStatus(status types.LoopStatus) error {
	for mode, s := range loopStatuses {
		if s == status {
			p.service.SetRepeatMode(mode)
			return nil
		}
	}
	return fmt.Errorf("unknown loop status %q", status)
}

func (p *player) Shuffle() (bool, error) { return p.service.Shuffle(), nil }

func (p *player) SetShuffle(on bool) error {
	if p.service.Shuffle() != on {
		p.service.ToggleShuffle()
	}
	return nil
}

// playbackStatus maps engine states. A loading track counts as playing so
// widgets do not flicker between tracks.
func playbackStatus(s playback.State) types.PlaybackStatus {
	switch s {
	case playback.StatePlaying, playback.StateLoading:
		return types.PlaybackStatusPlaying
	case playback.StatePaused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

// trackPath hashes a song id into a valid D-Bus object path.
func trackPath(id string) dbus.ObjectPath {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return dbus.ObjectPath(fmt.Sprintf("%s%016x", trackPathPrefix, h.Sum64()))
}
