package mpris

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// ArtURL returns the MPRIS art URL for a track's cover reference. Remote
// covers are passed through; local files must exist. Default artwork
// yields an empty string.
func ArtURL(coverRef string) string {
	switch {
	case coverRef == "" || coverRef == playlist.DefaultCover:
		return ""
	case strings.HasPrefix(coverRef, "http://"),
		strings.HasPrefix(coverRef, "https://"):
		return coverRef
	}

	path := strings.TrimPrefix(coverRef, "file://")
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	if _, err := os.Stat(abs); err != nil {
		return ""
	}
	return "file://" + abs
}
