package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		op   Op
		err  error
		want string
	}{
		{OpPlaybackLoad, nil, ""},
		{OpPlaybackLoad, errors.New("unsupported format"), "Failed to load track: unsupported format"},
		{OpQueueAdd, errors.New("already queued"), "Failed to add to queue: already queued"},
		{OpSongLookup, errors.New("song not found"), "Failed to look up song: song not found"},
		{OpPlaybackStart, errors.New("no audio device"), "Failed to start playback: no audio device"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.op, tt.err))
	}
}

func TestFormat_KeepsWrappedContext(t *testing.T) {
	err := fmt.Errorf("lookup 42: %w", errors.New("connection refused"))

	assert.Equal(t, "Failed to look up song: lookup 42: connection refused", Format(OpSongLookup, err))
}

func TestForEvent(t *testing.T) {
	assert.Equal(t, OpPlaybackLoad, ForEvent("load"))
	assert.Equal(t, OpPlaybackStart, ForEvent("play"))
	assert.Equal(t, OpPlaybackAdvance, ForEvent("advance"))
	assert.Equal(t, Op("resample"), ForEvent("resample"))
}
