package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/ui/render"
)

const (
	// ContentRow is the screen row of the bars, relative to the top of the
	// player bar (below the top border).
	ContentRow = 1
	// leftInset is the border plus the horizontal padding.
	leftInset = 2

	volumeBarWidth = 10
	minSeekWidth   = 10
	separator      = "  "
)

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	HasTrack bool
	Title    string
	Artist   string
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Shuffle  bool
	Repeat   playback.RepeatMode
	Liked    bool
}

// NewState builds a State from an engine snapshot.
func NewState(snap playback.Snapshot) State {
	s := State{
		Status:   snap.State,
		Position: snap.Elapsed,
		Duration: snap.Duration,
		Volume:   snap.Volume,
		Muted:    snap.Muted,
		Shuffle:  snap.Shuffle,
		Repeat:   snap.RepeatMode,
	}
	if snap.Current != nil {
		s.HasTrack = true
		s.Title = snap.Current.DisplayTitle()
		s.Artist = snap.Current.DisplayArtist()
		if s.Duration <= 0 {
			s.Duration = snap.Current.DurationHint
		}
	}
	return s
}

// Fraction returns the played fraction of the track in [0, 1].
func (s State) Fraction() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.Position)/float64(s.Duration), 0), 1)
}

// Height returns the total height of the player bar.
func Height() int {
	return 3 // top border + content + bottom border
}

// Layout is the horizontal position of the interactive bars, in screen
// columns from the left edge of the player bar.
type Layout struct {
	SeekX       int
	SeekWidth   int
	VolumeX     int
	VolumeWidth int
}

type parts struct {
	info     string
	infoW    int
	modes    string
	position string
	duration string
	volIcon  string
	percent  string
	seekW    int
	layout   Layout
}

func compute(s State, width int) parts {
	inner := max(width-2*leftInset, 0)

	p := parts{
		info:     infoText(s),
		modes:    modesText(s),
		position: FormatDuration(s.Position),
		duration: FormatDuration(s.Duration),
		volIcon:  icons.Volume(s.Muted),
		percent:  fmt.Sprintf("%3d%%", int(s.Volume*100+0.5)),
	}

	fixed := lipgloss.Width(separator) + // after info
		lipgloss.Width(p.position) + 1 +
		1 + lipgloss.Width(p.duration) +
		lipgloss.Width(separator) +
		lipgloss.Width(p.volIcon) + 1 +
		volumeBarWidth + 1 +
		lipgloss.Width(p.percent)
	if p.modes != "" {
		fixed += lipgloss.Width(p.modes) + lipgloss.Width(separator)
	}

	infoW := min(lipgloss.Width(p.info), inner*2/5)
	seekW := inner - fixed - infoW
	if seekW < minSeekWidth {
		infoW = max(infoW-(minSeekWidth-seekW), 0)
		if infoW < 4 {
			infoW = 0
		}
		seekW = max(inner-fixed-infoW, 0)
	}
	p.infoW = infoW
	p.seekW = seekW

	x := leftInset + infoW + lipgloss.Width(separator)
	if p.modes != "" {
		x += lipgloss.Width(p.modes) + lipgloss.Width(separator)
	}
	x += lipgloss.Width(p.position) + 1
	p.layout.SeekX = x
	p.layout.SeekWidth = seekW

	x += seekW + 1 + lipgloss.Width(p.duration) + lipgloss.Width(separator)
	x += lipgloss.Width(p.volIcon) + 1
	p.layout.VolumeX = x
	p.layout.VolumeWidth = volumeBarWidth
	return p
}

// LayoutFor returns where the seek and volume bars are drawn for width.
func LayoutFor(s State, width int) Layout {
	return compute(s, width).layout
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	p := compute(s, width)

	var b strings.Builder
	info := ""
	if p.infoW > 0 {
		info = render.TruncateAndPad(p.info, p.infoW)
	}
	if s.HasTrack {
		b.WriteString(titleStyle().Render(info))
	} else {
		b.WriteString(artistStyle().Render(info))
	}
	b.WriteString(separator)
	if p.modes != "" {
		b.WriteString(modeStyle().Render(p.modes))
		b.WriteString(separator)
	}
	b.WriteString(timeStyle().Render(p.position))
	b.WriteString(" ")
	b.WriteString(seekBar(s.Fraction(), p.seekW))
	b.WriteString(" ")
	b.WriteString(timeStyle().Render(p.duration))
	b.WriteString(separator)
	b.WriteString(p.volIcon)
	b.WriteString(" ")
	b.WriteString(volumeBar(s.Volume, s.Muted, volumeBarWidth))
	b.WriteString(" ")
	b.WriteString(timeStyle().Render(p.percent))

	return barStyle().Padding(0, leftInset-1).Width(width - 2).Render(b.String())
}

func infoText(s State) string {
	if !s.HasTrack {
		return "Nothing playing"
	}
	text := statusIcon(s.Status) + " " + render.Sanitize(s.Title)
	if s.Artist != "" {
		text += " · " + render.Sanitize(s.Artist)
	}
	return text
}

func statusIcon(st playback.State) string {
	switch st {
	case playback.StatePlaying:
		return icons.Play()
	case playback.StateLoading:
		return icons.Loading()
	default:
		return icons.Pause()
	}
}

func modesText(s State) string {
	var modes []string
	if s.Shuffle {
		modes = append(modes, icons.Shuffle())
	}
	switch s.Repeat {
	case playback.RepeatAll:
		modes = append(modes, icons.RepeatAll())
	case playback.RepeatOne:
		modes = append(modes, icons.RepeatOne())
	}
	if s.Liked {
		modes = append(modes, icons.Favorite())
	}
	return strings.Join(modes, " ")
}

func seekBar(ratio float64, width int) string {
	filled := min(int(float64(width)*ratio), width)
	return filledStyle().Render(strings.Repeat("━", filled)) +
		emptyStyle().Render(strings.Repeat("─", width-filled))
}

func volumeBar(volume float64, muted bool, width int) string {
	filled := min(max(int(float64(width)*volume+0.5), 0), width)
	if muted {
		return emptyStyle().Render(strings.Repeat("▓", filled) + strings.Repeat("░", width-filled))
	}
	return filledStyle().Render(strings.Repeat("▓", filled)) +
		emptyStyle().Render(strings.Repeat("░", width-filled))
}

// FormatDuration formats d as m:ss, or h:mm:ss from one hour up.
// Negative durations format as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := total / 60 % 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
