package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/app"
	"github.com/llehouerou/wavestream/internal/catalog"
	"github.com/llehouerou/wavestream/internal/config"
	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/icons"
	"github.com/llehouerou/wavestream/internal/lastfm"
	"github.com/llehouerou/wavestream/internal/mpris"
	"github.com/llehouerou/wavestream/internal/notify"
	"github.com/llehouerou/wavestream/internal/playback"
	"github.com/llehouerou/wavestream/internal/player"
	"github.com/llehouerou/wavestream/internal/state"
)

type rootOptions struct {
	debug      bool
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var closeLog func()

	cmd := &cobra.Command{
		Use:          "wavestream [song-id...]",
		Short:        "Terminal player for a streamed song library",
		Long:         "wavestream plays songs from a song lookup server. Song ids given as arguments are added to the queue.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			closeLog, err = setupLogging(opts.debug)
			return err
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if closeLog != nil {
				closeLog()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd.Context(), opts, args)
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: standard locations)")

	cmd.AddCommand(
		newQueueCmd(opts),
		newClearStateCmd(opts),
		newLastfmLoginCmd(opts),
	)
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFiles(opts.configPath)
	}
	return config.Load()
}

func runPlayer(ctx context.Context, opts *rootOptions, ids []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if style := icons.Init(cfg.Icons); cfg.Icons != "" && string(style) != cfg.Icons {
		log.WithField("icons", cfg.Icons).Warnf("unknown icon style, using %s", style)
	}

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer store.Close()

	pcfg := cfg.GetPlaybackConfig()
	p := player.New(player.WithTickInterval(pcfg.TickInterval))
	defer p.Close()

	engineOpts := []playback.Option{
		playback.WithConfig(engineConfig(pcfg)),
		playback.WithVolume(*pcfg.DefaultVolume),
	}

	var (
		recorders catalog.MultiRecorder
		liker     app.Liker
	)
	if cfg.HasServer() {
		lc := cfg.GetLookupConfig()
		client, err := catalog.New(cfg.ServerURL,
			catalog.WithToken(cfg.APIToken),
			catalog.WithTimeout(lc.Timeout),
			catalog.WithRateLimit(lc.RateLimit),
		)
		if err != nil {
			return fmt.Errorf("song lookup client: %w", err)
		}
		engineOpts = append(engineOpts, playback.WithLookup(client))
		recorders = append(recorders, client)
		liker = client
	} else {
		log.Warn("no server_url configured, song lookups disabled")
	}

	lfm := newLastfmRecorder(cfg, store)
	if lfm != nil {
		defer lfm.Stop()
		recorders = append(recorders, lfm)
	}
	if len(recorders) > 0 {
		engineOpts = append(engineOpts, playback.WithRecorder(recorders))
	}

	engine := playback.New(p, store, engineOpts...)
	defer engine.Close()

	if err := engine.Restore(time.Now()); err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpQueueLoad, err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go engine.Run(ctx)
	if lfm != nil {
		go followPlayback(ctx, engine.Subscribe(), lfm)
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(engine)
		if err != nil {
			log.WithError(err).Warn("start mpris")
		} else {
			defer adapter.Close()
		}
	}

	var notifier notify.Notifier
	if cfg.NotificationsEnabled() {
		if notifier, err = notify.New(); err != nil {
			log.WithError(err).Warn("desktop notifications unavailable")
			notifier = nil
		}
	}

	model := app.New(ctx, app.Options{
		Service:    engine,
		Liker:      liker,
		Notifier:   notifier,
		InitialIDs: ids,
	})
	prog := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func engineConfig(pc config.PlaybackConfig) playback.Config {
	c := playback.DefaultConfig()
	c.PreviousRestartThreshold = pc.PreviousRestartThreshold
	c.ResumeCutoff = pc.ResumeCutoff
	c.PersistInterval = pc.PersistInterval
	return c
}

// followPlayback pauses the scrobble countdown whenever playback is not
// running.
func followPlayback(ctx context.Context, sub *playback.Subscription, rec *lastfm.Recorder) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.StateChanged:
			rec.SetPlaying(ev.Current == playback.StatePlaying)
		}
	}
}

// newLastfmRecorder returns a scrobbling recorder when Last.fm is configured
// and linked, or nil.
func newLastfmRecorder(cfg *config.Config, store state.Interface) *lastfm.Recorder {
	if !cfg.HasLastfmConfig() {
		return nil
	}
	key := cfg.Lastfm.SessionKey
	if key == "" {
		sess, err := store.GetLastfmSession()
		if err != nil {
			log.WithError(err).Warn("read lastfm session")
			return nil
		}
		if sess == nil {
			log.Info("lastfm configured but not linked, run lastfm-login")
			return nil
		}
		key = sess.SessionKey
	}
	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret).WithSession(key)
	return lastfm.NewRecorder(client)
}
