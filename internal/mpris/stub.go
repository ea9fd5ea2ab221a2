//go:build !linux

package mpris

import "github.com/llehouerou/wavestream/internal/playback"

// Adapter does nothing outside Linux.
type Adapter struct{}

// New returns an inactive adapter.
func New(playback.Service) (*Adapter, error) { return &Adapter{}, nil }

// Close does nothing.
func (*Adapter) Close() error { return nil }
