package player

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// contentTypes maps media types to the extension used to pick a decoder.
var contentTypes = map[string]string{
	"audio/mpeg":   extMP3,
	"audio/mp3":    extMP3,
	"audio/flac":   extFLAC,
	"audio/x-flac": extFLAC,
	"audio/wav":    extWAV,
	"audio/x-wav":  extWAV,
	"audio/ogg":    extOGG,
	"audio/vorbis": extOGG,
}

type decoded struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	closer   io.Closer
}

func (d decoded) close() {
	d.streamer.Close()
	if d.closer != nil {
		d.closer.Close()
	}
}

// playable returns the streamer resampled to the speaker rate if needed.
func (d decoded) playable() beep.Streamer {
	rate := outputRate()
	if rate != 0 && d.format.SampleRate != rate {
		return beep.Resample(4, d.format.SampleRate, rate, d.streamer)
	}
	return d.streamer
}

// IsStreamURL returns true for http(s) media references.
func IsStreamURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func (p *Player) decode(src string) (decoded, error) {
	rc, ext, err := p.openSource(src)
	if err != nil {
		return decoded{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case extMP3:
		streamer, format, err = mp3.Decode(rc)
	case extFLAC:
		streamer, format, err = flac.Decode(rc)
	case extWAV:
		streamer, format, err = wav.Decode(rc)
	case extOGG:
		streamer, format, err = vorbis.Decode(rc)
	default:
		rc.Close()
		return decoded{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		rc.Close()
		return decoded{}, err
	}
	return decoded{streamer: streamer, format: format, closer: rc}, nil
}

// openSource opens a local file or fetches an http(s) source into memory
// so the decoder can seek.
func (p *Player) openSource(src string) (io.ReadCloser, string, error) {
	if !IsStreamURL(src) {
		localPath := strings.TrimPrefix(src, "file://")
		f, err := os.Open(localPath)
		if err != nil {
			return nil, "", err
		}
		return f, strings.ToLower(filepath.Ext(localPath)), nil
	}

	resp, err := p.client.Get(src)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: %s", src, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(data)), streamExt(src, resp.Header.Get("Content-Type")), nil
}

// streamExt picks the decoder extension from the URL path, falling back
// to the response content type.
func streamExt(src, contentType string) string {
	if u, err := url.Parse(src); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
			if _, known := knownExts[ext]; known {
				return ext
			}
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return contentTypes[mediaType]
	}
	return ""
}

var knownExts = map[string]struct{}{
	extMP3:  {},
	extFLAC: {},
	extWAV:  {},
	extOGG:  {},
}
