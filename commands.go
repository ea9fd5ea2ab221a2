package main

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavestream/internal/errmsg"
	"github.com/llehouerou/wavestream/internal/lastfm"
	"github.com/llehouerou/wavestream/internal/playlist"
	"github.com/llehouerou/wavestream/internal/state"
	"github.com/llehouerou/wavestream/internal/ui/playerbar"
)

func openStore(opts *rootOptions) (*state.Manager, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	return store, nil
}

func newQueueCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Print the saved queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.GetSnapshot()
			if err != nil {
				return fmt.Errorf("read player state: %w", err)
			}
			if snap == nil || len(snap.Tracks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty.")
				return nil
			}
			printQueue(cmd, snap, time.Now())
			return nil
		},
	}
}

func printQueue(cmd *cobra.Command, snap *state.Snapshot, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"", "#", "ID", "Title", "Artist", "Length"})

	var total time.Duration
	for i, tr := range snap.Tracks {
		marker := ""
		if i == snap.CurrentIndex {
			marker = "▶"
		}
		track := playlist.Track{ID: tr.ID, Title: tr.Title, ArtistName: tr.Artist}
		title, artist := track.DisplayTitle(), track.DisplayArtist()
		t.AppendRow(table.Row{marker, i + 1, tr.ID, title, artist, playerbar.FormatDuration(tr.DurationHint)})
		total += tr.DurationHint
	}
	t.AppendFooter(table.Row{"", "", "", "", humanize.Comma(int64(len(snap.Tracks))) + " tracks", playerbar.FormatDuration(total)})
	t.Render()

	status := "paused"
	if snap.IsPlaying {
		status = "playing"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %s while %s at %s, repeat %s, shuffle %t.\n",
		humanize.RelTime(snap.SavedAt, now, "ago", "from now"),
		status, playerbar.FormatDuration(snap.Elapsed), snap.RepeatMode, snap.Shuffle)
}

func newClearStateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-state",
		Short: "Forget the saved queue and playback position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpQueueClear, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved state cleared.")
			return nil
		},
	}
}

func newLastfmLoginCmd(opts *rootOptions) *cobra.Command {
	var unlink bool
	cmd := &cobra.Command{
		Use:   "lastfm-login",
		Short: "Link a Last.fm account for scrobbling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := state.Open(cfg.StatePath)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if unlink {
				if err := store.ClearLastfmSession(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Last.fm account unlinked.")
				return nil
			}
			if !cfg.HasLastfmConfig() {
				return errors.New("set [lastfm] api_key and api_secret in the config first")
			}

			client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
			auth, err := client.BeginAuth()
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
			}
			fmt.Fprintf(out, "Authorize wavestream in your browser:\n  %s\n", auth.URL)
			if err := lastfm.OpenBrowser(auth.URL); err != nil {
				fmt.Fprintln(out, "(could not open a browser, open the link manually)")
			}
			fmt.Fprint(out, "Press Enter once authorized...")
			_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')

			username, err := client.CompleteAuth(auth)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
			}
			if username == "" {
				username = "unknown"
			}
			if err := store.SaveLastfmSession(username, client.SessionKey()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Linked Last.fm account %s.\n", username)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unlink, "unlink", false, "forget the linked account")
	return cmd
}
