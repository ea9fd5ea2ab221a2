//go:build !linux

package notify

import "github.com/llehouerou/wavestream/internal/playlist"

// TrackIcon returns empty on non-Linux platforms.
// Desktop notifications are only supported on Linux via D-Bus.
func TrackIcon(_ playlist.Track) string {
	return ""
}
