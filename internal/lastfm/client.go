// Package lastfm links a Last.fm account and scrobbles played tracks.
package lastfm

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shkh/lastfm-go/lastfm"
)

const authURL = "https://www.last.fm/api/auth/"

// ErrNotLinked is returned by scrobbling calls made without a session key.
var ErrNotLinked = errors.New("lastfm account not linked")

// ScrobbleTrack is the metadata sent for a now-playing update or a scrobble.
type ScrobbleTrack struct {
	Artist   string
	Track    string
	Duration time.Duration
	Started  time.Time
}

func (t ScrobbleTrack) params() lastfm.P {
	p := lastfm.P{"artist": t.Artist, "track": t.Track}
	if secs := int(t.Duration / time.Second); secs > 0 {
		p["duration"] = secs
	}
	return p
}

// Client talks to the Last.fm web API with one account's session.
type Client struct {
	api     *lastfm.Api
	apiKey  string
	session string
}

// New creates an unlinked client for the application credentials.
func New(apiKey, apiSecret string) *Client {
	return &Client{api: lastfm.New(apiKey, apiSecret), apiKey: apiKey}
}

// WithSession links the client to an existing session key.
func (c *Client) WithSession(key string) *Client {
	c.session = key
	c.api.SetSession(key)
	return c
}

// Linked reports whether a session key is set.
func (c *Client) Linked() bool { return c.session != "" }

// Authorization is a pending desktop-auth request.
type Authorization struct {
	Token string
	URL   string // page where the user grants access
}

// BeginAuth requests a token and the page where the user authorizes it.
func (c *Client) BeginAuth() (Authorization, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return Authorization{}, fmt.Errorf("request token: %w", err)
	}
	q := url.Values{"api_key": {c.apiKey}, "token": {token}}
	return Authorization{Token: token, URL: authURL + "?" + q.Encode()}, nil
}

// CompleteAuth exchanges an authorized token for a session and links the
// client to it. The username is empty when the profile lookup fails.
func (c *Client) CompleteAuth(a Authorization) (username string, err error) {
	if err := c.api.LoginWithToken(a.Token); err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	c.session = c.api.GetSessionKey()

	info, err := c.api.User.GetInfo(nil)
	if err != nil {
		return "", nil //nolint:nilerr // session is valid without a username
	}
	return info.Name, nil
}

// SessionKey returns the linked session key.
func (c *Client) SessionKey() string { return c.session }

// UpdateNowPlaying marks t as currently playing on the profile.
func (c *Client) UpdateNowPlaying(t ScrobbleTrack) error {
	if !c.Linked() {
		return ErrNotLinked
	}
	if _, err := c.api.Track.UpdateNowPlaying(t.params()); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble records a listen of t.
func (c *Client) Scrobble(t ScrobbleTrack) error {
	if !c.Linked() {
		return ErrNotLinked
	}
	p := t.params()
	p["timestamp"] = t.Started.Unix()
	if _, err := c.api.Track.Scrobble(p); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}
