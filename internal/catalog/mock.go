// internal/catalog/mock.go
package catalog

import (
	"context"
	"sync"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// Mock is an in-memory stand-in for Client.
type Mock struct {
	mu sync.Mutex

	songs     map[string]playlist.Track
	liked     map[string]bool
	songErr   error
	recordErr error
	played    []string
	gate      chan struct{}
}

// NewMock creates a mock serving the given tracks.
func NewMock(tracks ...playlist.Track) *Mock {
	m := &Mock{
		songs: make(map[string]playlist.Track),
		liked: make(map[string]bool),
	}
	for _, t := range tracks {
		m.songs[t.ID] = t
	}
	return m
}

func (m *Mock) Song(ctx context.Context, id string) (playlist.Track, error) {
	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return playlist.Track{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.songErr != nil {
		return playlist.Track{}, m.songErr
	}
	t, ok := m.songs[id]
	if !ok {
		return playlist.Track{}, ErrNotFound
	}
	return t, nil
}

func (m *Mock) SetLiked(_ context.Context, id string, liked bool) (LikeStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liked[id] = liked
	count := 0
	if liked {
		count = 1
	}
	return LikeStatus{Liked: liked, Count: count}, nil
}

func (m *Mock) IsLiked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liked[id], nil
}

func (m *Mock) RecordPlay(_ context.Context, t playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, t.ID)
	return m.recordErr
}

// Test helpers

// Hold makes Song block until the returned release func is called.
func (m *Mock) Hold() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

func (m *Mock) SetSongError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songErr = err
}

func (m *Mock) SetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErr = err
}

func (m *Mock) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.played...)
}
