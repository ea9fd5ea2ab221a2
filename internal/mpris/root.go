//go:build linux

package mpris

// root serves org.mpris.MediaPlayer2. The terminal UI owns its window and
// lifecycle, so Raise and Quit are refused.
type root struct{}

func (root) Raise() error { return nil }

func (root) Quit() error { return nil }

func (root) CanQuit() (bool, error) { return false, nil }

func (root) CanRaise() (bool, error) { return false, nil }

func (root) HasTrackList() (bool, error) { return false, nil }

func (root) Identity() (string, error) { return "Wavestream", nil }

//nolint:revive // name fixed by the MPRIS interface
func (root) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https", "file"}, nil
}

func (root) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/x-wav"}, nil
}
