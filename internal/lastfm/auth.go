package lastfm

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand returns the command that opens a URL on this platform.
func browserCommand(goos, link string) (*exec.Cmd, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", link), nil
	case "darwin":
		return exec.Command("open", link), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil
	}
	return nil, fmt.Errorf("no browser launcher for %s", goos)
}

// OpenBrowser opens link in the default browser without waiting for it.
func OpenBrowser(link string) error {
	cmd, err := browserCommand(runtime.GOOS, link)
	if err != nil {
		return err
	}
	return cmd.Start()
}
