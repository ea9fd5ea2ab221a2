//go:build linux

// Package mpris exposes the playback engine on the session bus as an MPRIS
// media player, so desktop widgets and media keys can drive it.
package mpris

import (
	"sync"

	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavestream/internal/playback"
)

const busName = "wavestream"

// signaler emits org.freedesktop.DBus.Properties.PropertiesChanged for a
// group of player properties.
type signaler interface {
	OnPlayPause() error
	OnTitle() error
	OnVolume() error
	OnOptions() error
}

// Adapter serves the MPRIS interfaces for a playback service.
type Adapter struct {
	server *server.Server
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New registers the player on the session bus and starts forwarding engine
// events as property-change signals.
func New(service playback.Service) (*Adapter, error) {
	srv := server.NewServer(busName, root{}, &player{service: service})
	a := &Adapter{server: srv, stop: make(chan struct{})}

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := srv.Listen(); err != nil {
			log.WithError(err).Warn("mpris server stopped")
		}
	}()
	go func() {
		defer a.wg.Done()
		forward(service.Subscribe(), events.NewEventHandler(srv).Player, a.stop)
	}()
	return a, nil
}

// Close releases the bus name and stops forwarding.
func (a *Adapter) Close() error {
	close(a.stop)
	err := a.server.Stop()
	a.wg.Wait()
	return err
}

// forward turns engine events into MPRIS signals until stop is closed or
// the subscription ends.
func forward(sub *playback.Subscription, sig signaler, stop <-chan struct{}) {
	for {
		var err error
		select {
		case <-stop:
			return
		case <-sub.Done:
			return
		case <-sub.StateChanged:
			err = sig.OnPlayPause()
		case <-sub.TrackChanged:
			err = sig.OnTitle()
		case <-sub.VolumeChanged:
			err = sig.OnVolume()
		case <-sub.ModeChanged:
			err = sig.OnOptions()
		case <-sub.QueueChanged:
			// CanGoNext and CanGoPrevious follow the queue length.
			err = sig.OnOptions()
		}
		if err != nil {
			log.WithError(err).Debug("mpris signal")
		}
	}
}
