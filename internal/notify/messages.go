package notify

import (
	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/playlist"
)

const defaultTimeout = 5000

// ForTrack builds the now-playing notification for t.
func ForTrack(t playlist.Track) Notification {
	return Notification{
		Title:   t.DisplayTitle(),
		Body:    t.DisplayArtist(),
		Icon:    TrackIcon(t),
		Timeout: defaultTimeout,
		Urgency: UrgencyLow,
		Tag:     "track",
	}
}

// ForError builds a notification for an asynchronous playback failure.
func ForError(ev playback.ErrorEvent) Notification {
	return Notification{
		Title:   "Playback error",
		Body:    errmsg.Format(errmsg.ForEvent(ev.Operation), ev.Err),
		Icon:    "dialog-error",
		Timeout: defaultTimeout,
		Urgency: UrgencyNormal,
	}
}

// ForNotice builds a notification for an informational playback notice.
func ForNotice(n playback.Notice) Notification {
	return Notification{
		Title:   "Wavestream",
		Body:    n.Message,
		Timeout: defaultTimeout,
		Urgency: UrgencyLow,
	}
}
