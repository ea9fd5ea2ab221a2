// Package catalog provides a client for the music server's song, like and
// play-count endpoints.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/llehouerou/wavestream/internal/playlist"
)

var (
	// ErrNotFound is returned when the server has no song with the given id.
	ErrNotFound = errors.New("song not found")
	// ErrRejected is returned when the server answers with success=false.
	ErrRejected = errors.New("request rejected")
	// ErrInvalidID is returned for ids that cannot name a song.
	ErrInvalidID = errors.New("invalid song id")
)

const (
	userAgent      = "wavestream/1.0"
	defaultTimeout = 10 * time.Second
	defaultRate    = 10
)

// Client is a music server API client.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables
// the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse server url: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRate), defaultRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type songRecord struct {
	ID         flexibleID `json:"id"`
	Title      string     `json:"title"`
	ArtistName string     `json:"artist_name"`
	CoverPath  string     `json:"cover_path"`
	FilePath   string     `json:"file_path"`
	Duration   float64    `json:"duration"`
}

type songResponse struct {
	Success bool        `json:"success"`
	Song    *songRecord `json:"song"`
	Message string      `json:"message"`
}

// Song looks up playable metadata for a song id.
func (c *Client) Song(ctx context.Context, id string) (playlist.Track, error) {
	p, err := songPath("api/songs", id)
	if err != nil {
		return playlist.Track{}, err
	}
	var resp songResponse
	if err := c.do(ctx, http.MethodGet, p, nil, &resp); err != nil {
		return playlist.Track{}, err
	}
	if !resp.Success || resp.Song == nil {
		return playlist.Track{}, rejected(resp.Message)
	}

	s := resp.Song
	trackID := string(s.ID)
	if trackID == "" {
		trackID = id
	}
	return playlist.Track{
		ID:           trackID,
		Title:        s.Title,
		ArtistName:   s.ArtistName,
		CoverRef:     c.resolveCover(s.CoverPath),
		AudioRef:     c.resolveRef(s.FilePath),
		DurationHint: time.Duration(s.Duration * float64(time.Second)),
	}, nil
}

// LikeStatus is the server's view of a song's like state.
type LikeStatus struct {
	Liked bool
	Count int
}

type likeResponse struct {
	Success  bool   `json:"success"`
	IsLiked  bool   `json:"is_liked"`
	NewCount int    `json:"new_count"`
	Message  string `json:"message"`
}

// SetLiked likes or unlikes a song.
func (c *Client) SetLiked(ctx context.Context, id string, liked bool) (LikeStatus, error) {
	action := "unlike"
	if liked {
		action = "like"
	}
	body := map[string]string{"song_id": id, "action": action}

	var resp likeResponse
	if err := c.do(ctx, http.MethodPost, "api/likes", body, &resp); err != nil {
		return LikeStatus{}, err
	}
	if !resp.Success {
		return LikeStatus{}, rejected(resp.Message)
	}
	return LikeStatus{Liked: resp.IsLiked, Count: resp.NewCount}, nil
}

// IsLiked reports whether the current user likes the song.
func (c *Client) IsLiked(ctx context.Context, id string) (bool, error) {
	p, err := songPath("api/likes", id)
	if err != nil {
		return false, err
	}
	var resp likeResponse
	if err := c.do(ctx, http.MethodGet, p, nil, &resp); err != nil {
		return false, err
	}
	if !resp.Success {
		return false, rejected(resp.Message)
	}
	return resp.IsLiked, nil
}

// RecordPlay notifies the server that a song started playing. The response
// body is ignored.
func (c *Client) RecordPlay(ctx context.Context, t playlist.Track) error {
	return c.do(ctx, http.MethodPost, "api/plays", map[string]string{"song_id": t.ID}, nil)
}

// songPath appends id to prefix as a single escaped segment.
func songPath(prefix, id string) (string, error) {
	switch strings.TrimSpace(id) {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return prefix + "/" + url.PathEscape(id), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// resolveRef turns a server-relative media path into an absolute URL.
// Absolute URLs and file:// references are returned unchanged.
func (c *Client) resolveRef(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "file://") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// resolveCover resolves a cover path like a media path, keeping the
// default artwork sentinel as is.
func (c *Client) resolveCover(ref string) string {
	if ref == playlist.DefaultCover {
		return ref
	}
	return c.resolveRef(ref)
}

func rejected(msg string) error {
	if msg == "" {
		return ErrRejected
	}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

// flexibleID accepts ids encoded as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("song id: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}
