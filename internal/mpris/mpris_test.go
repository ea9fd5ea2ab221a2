//go:build linux

package mpris

import (
	"strings"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
)

func newTestPlayer(t *testing.T) (*player, *playback.Engine, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	eng := playback.New(p, state.NewMock(), playback.WithDispatcher(func(f func()) { f() }))
	t.Cleanup(func() { _ = eng.Close() })
	return &player{service: eng}, eng, p
}

func TestPlayer_Metadata(t *testing.T) {
	a, eng, p := newTestPlayer(t)

	meta, err := a.Metadata()
	if err != nil || meta.Title != "" {
		t.Fatalf("Metadata() with no track = %+v, %v", meta, err)
	}

	_ = eng.LoadAndPlay(playlist.Track{ID: "7", AudioRef: "/music/7.mp3"}, playback.PlayOptions{})
	eng.HandleMediaEvent(p.Ready(2 * time.Minute))

	meta, err = a.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Title != playlist.UnknownTitle {
		t.Errorf("Title = %q, want placeholder", meta.Title)
	}
	if meta.Length != types.Microseconds((2 * time.Minute).Microseconds()) {
		t.Errorf("Length = %d, want 2m", meta.Length)
	}
	if !strings.HasPrefix(string(meta.TrackId), trackPathPrefix) || !meta.TrackId.IsValid() {
		t.Errorf("TrackId = %q", meta.TrackId)
	}

	status, _ := a.PlaybackStatus()
	if status != types.PlaybackStatusPlaying {
		t.Errorf("PlaybackStatus() = %v, want Playing", status)
	}
}

func TestPlayer_SeekIsRelative(t *testing.T) {
	a, eng, p := newTestPlayer(t)
	_ = eng.LoadAndPlay(playlist.Track{ID: "1", AudioRef: "/music/1.mp3"}, playback.PlayOptions{})
	eng.HandleMediaEvent(p.Ready(time.Minute))
	_ = eng.Seek(10 * time.Second)

	if err := a.Seek(types.Microseconds((5 * time.Second).Microseconds())); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := eng.Elapsed(); got != 15*time.Second {
		t.Errorf("Elapsed() = %v, want 15s", got)
	}

	_ = a.SetPosition("", types.Microseconds((40 * time.Second).Microseconds()))
	if got := eng.Elapsed(); got != 40*time.Second {
		t.Errorf("Elapsed() = %v, want 40s", got)
	}
}

func TestPlayer_Modes(t *testing.T) {
	a, eng, _ := newTestPlayer(t)

	tests := []struct {
		status types.LoopStatus
		want   playback.RepeatMode
	}{
		{types.LoopStatusTrack, playback.RepeatOne},
		{types.LoopStatusPlaylist, playback.RepeatAll},
		{types.LoopStatusNone, playback.RepeatNone},
	}
	for _, tt := range tests {
		_ = a.SetLoopStatus(tt.status)
		if got := eng.RepeatMode(); got != tt.want {
			t.Errorf("SetLoopStatus(%v): RepeatMode() = %v, want %v", tt.status, got, tt.want)
		}
		if got, _ := a.LoopStatus(); got != tt.status {
			t.Errorf("LoopStatus() = %v, want %v", got, tt.status)
		}
	}

	_ = a.SetShuffle(true)
	_ = a.SetShuffle(true)
	if !eng.Shuffle() {
		t.Error("Shuffle() = false after SetShuffle(true)")
	}

	_ = a.SetVolume(0.25)
	if got, _ := a.Volume(); got != 0.25 {
		t.Errorf("Volume() = %v, want 0.25", got)
	}
}

func TestPlaybackStatus(t *testing.T) {
	tests := []struct {
		state playback.State
		want  types.PlaybackStatus
	}{
		{playback.StateIdle, types.PlaybackStatusStopped},
		{playback.StateLoading, types.PlaybackStatusPlaying},
		{playback.StatePlaying, types.PlaybackStatusPlaying},
		{playback.StatePaused, types.PlaybackStatusPaused},
	}
	for _, tt := range tests {
		if got := playbackStatus(tt.state); got != tt.want {
			t.Errorf("playbackStatus(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestPlayer_SetLoopStatusRejectsUnknown(t *testing.T) {
	a, _, _ := newTestPlayer(t)
	if err := a.SetLoopStatus(types.LoopStatus("Sideways")); err == nil {
		t.Error("SetLoopStatus(unknown) error = nil")
	}
}

type recordingSignaler struct {
	got chan string
}

func (r *recordingSignaler) emit(name string) error {
	r.got <- name
	return nil
}

func (r *recordingSignaler) OnPlayPause() error { return r.emit("playpause") }
func (r *recordingSignaler) OnTitle() error { return r.emit("title") }
func (r *recordingSignaler) OnVolume() error { return r.emit("volume") }
func (r *recordingSignaler) OnOptions() error { return r.emit("options") }

func (r *recordingSignaler) next(t *testing.T) string {
	t.Helper()
	select {
	case name := <-r.got:
		return name
	case <-time.After(time.Second):
		t.Fatal("no signal emitted")
		return ""
	}
}

func TestForward_SignalsEngineChanges(t *testing.T) {
	_, eng, _ := newTestPlayer(t)
	sig := &recordingSignaler{got: make(chan string, 8)}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		forward(eng.Subscribe(), sig, stop)
		close(done)
	}()

	_ = eng.SetVolume(0.5)
	if got := sig.next(t); got != "volume" {
		t.Errorf("after SetVolume got %q signal, want volume", got)
	}

	eng.ToggleShuffle()
	if got := sig.next(t); got != "options" {
		t.Errorf("after ToggleShuffle got %q signal, want options", got)
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not return after stop")
	}
}
