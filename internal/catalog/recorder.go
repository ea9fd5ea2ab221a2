package catalog

import (
	"context"
	"errors"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// Recorder receives a notification each time a track starts playing.
type Recorder interface {
	RecordPlay(ctx context.Context, t playlist.Track) error
}

// MultiRecorder fans a play notification out to every recorder. All
// recorders are called; their errors are joined.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordPlay(ctx context.Context, t playlist.Track) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordPlay(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Recorder = (*Client)(nil)
	_ Recorder = MultiRecorder(nil)
)
