//go:build linux

package notify

import (
	"strings"

	"github.com/llehouerou/wavestream/internal/mpris"
	"github.com/llehouerou/wavestream/internal/playlist"
)

// fallbackIcon is the freedesktop icon name used without local cover art.
const fallbackIcon = "audio-x-generic"

// TrackIcon returns a notification icon for t: its cover when it is a
// local file, the generic audio icon otherwise.
func TrackIcon(t playlist.Track) string {
	art := mpris.ArtURL(t.CoverRef)
	if path, ok := strings.CutPrefix(art, "file://"); ok {
		return path
	}
	return fallbackIcon
}
