// Package icons picks the glyphs used by the UI for the configured icon
// style. The active set is process-wide and chosen once at startup.
package icons

// Style is an icon_style config value.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

type set struct {
	play, pause, loading string
	track, marker        string // prefixes; marker flags the playing queue entry
	shuffle              string
	repeatAll, repeatOne string
	favorite             string
	volume, muted        string
}

var sets = map[Style]set{
	StyleNerd: {
		play: "\uf04b", pause: "\uf04c", loading: "\uf110",
		track: "\uf001 ", marker: "\uf04b ",
		shuffle:   "\U000f049f",
		repeatAll: "\U000f0456", repeatOne: "\U000f0458",
		favorite: "\U000f08d0",
		volume:   "\U000f057e", muted: "\U000f075f",
	},
	StyleUnicode: {
		play: "▶", pause: "⏸", loading: "⋯",
		track: "♪ ", marker: "▶ ",
		shuffle:   "🔀",
		repeatAll: "🔁", repeatOne: "🔂",
		favorite: "♥",
		volume:   "🔊", muted: "🔇",
	},
	StyleNone: {
		play: ">", pause: "||", loading: "...",
		marker:    "> ",
		shuffle:   "[S]",
		repeatAll: "[R]", repeatOne: "[1]",
		favorite: "*",
		volume:   "vol", muted: "mute",
	},
}

var current = sets[StyleNone]

// Init activates the set for style and returns the style in effect.
// Unknown names fall back to StyleNone; matching is case-sensitive.
func Init(style string) Style {
	s := Style(style)
	icons, ok := sets[s]
	if !ok {
		s, icons = StyleNone, sets[StyleNone]
	}
	current = icons
	return s
}

// FormatTrack prefixes a track title with the track glyph, if any.
func FormatTrack(name string) string { return current.track + name }

// CurrentMarker prefixes the queue entry that is playing.
func CurrentMarker() string { return current.marker }

func Play() string { return current.play }
func Pause() string { return current.pause }
func Loading() string { return current.loading }
func Shuffle() string { return current.shuffle }
func RepeatAll() string { return current.repeatAll }
func RepeatOne() string { return current.repeatOne }
func Favorite() string { return current.favorite }

// Volume returns the speaker glyph, crossed out when muted.
func Volume(muted bool) string {
	if muted {
		return current.muted
	}
	return current.volume
}
