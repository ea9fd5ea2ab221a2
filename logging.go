package main

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
)

const logFile = "wavestream/wavestream.log"

// setupLogging sends log output to the XDG state directory, since the
// terminal belongs to the UI.
func setupLogging(debug bool) (func(), error) {
	path, err := xdg.StateFile(logFile)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	return func() { _ = f.Close() }, nil
}
