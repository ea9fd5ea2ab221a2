// Package playlist models the play queue: tracks, the current pointer,
// and undo history.
package playlist

import "time"

// Placeholders for tracks with missing metadata.
const (
	UnknownTitle  = "Unknown"
	UnknownArtist = "Unknown Artist"

	// DefaultCover is the cover reference meaning "use default artwork".
	DefaultCover = "default"
)

// Track is a playable song as returned by the song lookup service. Tracks
// are values; an updated track replaces the old one.
type Track struct {
	ID           string // opaque song identifier
	Title        string
	ArtistName   string
	CoverRef     string // empty or DefaultCover for default artwork
	AudioRef     string // path or URL
	DurationHint time.Duration
}

func (t Track) DisplayTitle() string { return orPlaceholder(t.Title, UnknownTitle) }

func (t Track) DisplayArtist() string { return orPlaceholder(t.ArtistName, UnknownArtist) }

// DisplayCover returns the cover reference, or fallback for default artwork.
func (t Track) DisplayCover(fallback string) string {
	if t.CoverRef == DefaultCover {
		return fallback
	}
	return orPlaceholder(t.CoverRef, fallback)
}

// Playable reports whether the track has media to load.
func (t Track) Playable() bool { return t.AudioRef != "" }

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
