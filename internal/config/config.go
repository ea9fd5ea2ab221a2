// Package config loads settings from built-in defaults, TOML files and
// WAVESTREAM_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels: WAVESTREAM_PLAYBACK__RESUME_CUTOFF=1h.
const EnvPrefix = "WAVESTREAM_"

type Config struct {
	ServerURL string `koanf:"server_url"` // song lookup service, e.g. "http://localhost:8000"
	APIToken  string `koanf:"api_token"`  // sent as a bearer token when set
	StatePath string `koanf:"state_path"` // SQLite file, defaults to the XDG data dir
	Icons     string `koanf:"icons"`      // "nerd", "unicode", or "none"

	Notifications *bool `koanf:"notifications"` // default: true
	MPRIS         *bool `koanf:"mpris"`         // default: true

	Playback PlaybackConfig `koanf:"playback"`
	Lookup   LookupConfig   `koanf:"lookup"`
	Lastfm   LastfmConfig   `koanf:"lastfm"`
}

// PlaybackConfig holds the playback engine timing policy.
type PlaybackConfig struct {
	PreviousRestartThreshold time.Duration `koanf:"previous_restart_threshold"`
	ResumeCutoff             time.Duration `koanf:"resume_cutoff"`
	PersistInterval          time.Duration `koanf:"persist_interval"`
	TickInterval             time.Duration `koanf:"tick_interval"`
	DefaultVolume            *float64      `koanf:"default_volume"` // 0.0-1.0
}

// LookupConfig holds song lookup client settings.
type LookupConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
}

// LastfmConfig enables scrobbling when both key and secret are set.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"` // optional, otherwise read from the state store
}

const defaultVolume = 1.0

var (
	defaultPlayback = PlaybackConfig{
		PreviousRestartThreshold: 3 * time.Second,
		ResumeCutoff:             10 * time.Minute,
		PersistInterval:          5 * time.Second,
		TickInterval:             250 * time.Millisecond,
	}
	defaultLookup = LookupConfig{
		Timeout:   10 * time.Second,
		RateLimit: 10,
	}
)

func defaults() map[string]any {
	return map[string]any{
		"icons":                               "none",
		"playback.previous_restart_threshold": defaultPlayback.PreviousRestartThreshold,
		"playback.resume_cutoff":              defaultPlayback.ResumeCutoff,
		"playback.persist_interval":           defaultPlayback.PersistInterval,
		"playback.tick_interval":              defaultPlayback.TickInterval,
		"lookup.timeout":                      defaultLookup.Timeout,
		"lookup.rate_limit":                   defaultLookup.RateLimit,
	}
}

// Load reads the user config, then ./config.toml, then the environment.
func Load() (*Config, error) {
	return LoadFiles(searchPaths()...)
}

// LoadFiles layers the given TOML files (later files win) between the
// defaults and the environment. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{Prefix: EnvPrefix, TransformFunc: envKey}), nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.StatePath = expandPath(cfg.StatePath)
	return &cfg, nil
}

// envKey maps WAVESTREAM_LASTFM__API_KEY to lastfm.api_key.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

func searchPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "wavestream", "config.toml"),
		"config.toml",
	}
}

func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// HasServer reports whether a song lookup service is configured.
func (c *Config) HasServer() bool { return c.ServerURL != "" }

// HasLastfmConfig reports whether scrobbling credentials are set.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

func (c *Config) NotificationsEnabled() bool { return c.Notifications == nil || *c.Notifications }

func (c *Config) MPRISEnabled() bool { return c.MPRIS == nil || *c.MPRIS }

// GetPlaybackConfig returns the playback settings with non-positive
// durations and out-of-range volumes replaced by defaults.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	pb := c.Playback
	orDefault(&pb.PreviousRestartThreshold, defaultPlayback.PreviousRestartThreshold)
	orDefault(&pb.ResumeCutoff, defaultPlayback.ResumeCutoff)
	orDefault(&pb.PersistInterval, defaultPlayback.PersistInterval)
	orDefault(&pb.TickInterval, defaultPlayback.TickInterval)

	vol := defaultVolume
	if v := pb.DefaultVolume; v != nil && *v >= 0 && *v <= 1 {
		vol = *v
	}
	pb.DefaultVolume = &vol
	return pb
}

// GetLookupConfig returns the lookup settings with defaults applied.
func (c *Config) GetLookupConfig() LookupConfig {
	lk := c.Lookup
	orDefault(&lk.Timeout, defaultLookup.Timeout)
	orDefault(&lk.RateLimit, defaultLookup.RateLimit)
	return lk
}

func orDefault[T time.Duration | float64](v *T, def T) {
	if *v <= 0 {
		*v = def
	}
}
