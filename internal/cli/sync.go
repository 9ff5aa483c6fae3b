package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskshelf/internal/paths"
	"github.com/mesh-intelligence/taskshelf/internal/syncer"
	"github.com/mesh-intelligence/taskshelf/internal/syncstate"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [folder]",
		Short: "Choose the shared folder to sync with",
		Long: `Record the folder that sync mirrors tasks to. Without an argument the
sync.folder value from config.yaml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := a.config.GetString(cfgKeySyncFolder)
			if len(args) == 1 {
				folder = args[0]
			}
			if folder == "" {
				return usageErrorf("no folder given and sync.folder is not set")
			}
			folder, err := paths.Expand(folder)
			if err != nil {
				return err
			}
			info, err := os.Stat(folder)
			if err != nil {
				return usageErrorf("folder %s: %v", folder, err)
			}
			if !info.IsDir() {
				return usageErrorf("%s is not a directory", folder)
			}

			tracker, err := a.tracker()
			if err != nil {
				return err
			}
			// A different folder has none of our history.
			if previous, ok := tracker.Token(); ok && previous != folder {
				if err := tracker.ClearLastSyncDate(); err != nil {
					return err
				}
			}
			if err := tracker.SetToken(folder); err != nil {
				return err
			}
			fmt.Fprintf(a.out(cmd), "Logged in to %s\n", folder)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the sync folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := a.tracker()
			if err != nil {
				return err
			}
			if err := errors.Join(tracker.ClearToken(), tracker.ClearLastSyncDate()); err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), "Logged out")
			return nil
		},
	}
}

func newSyncCmd(a *app) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize tasks with the shared folder",
		Long: `Merge tasks from the shared folder that changed since they were last
seen, then write the merged set back. With --watch, keep syncing every
interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, tracker, err := a.runner()
			if err != nil {
				return err
			}
			if !watch {
				if err := runner.Run(cmd.Context()); err != nil {
					return fmt.Errorf("sync: %w", err)
				}
				folder, _ := tracker.Token()
				fmt.Fprintf(a.out(cmd), "Synced with %s\n", folder)
				return nil
			}

			if interval == 0 {
				interval = a.config.GetDuration(cfgKeySyncInterval)
			}
			if interval < time.Second {
				return usageErrorf("sync interval %s is shorter than a second", interval)
			}
			if err := tracker.SetSyncInterval(interval); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fmt.Fprintf(a.out(cmd), "Syncing every %s, press Ctrl-C to stop\n", tracker.SyncInterval())
			if err := runner.Loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("sync: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep syncing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between syncs with --watch (default: sync.interval)")
	cmd.AddCommand(newSyncStatusCmd(a))
	return cmd
}

// syncStatus is the JSON form of sync status.
type syncStatus struct {
	Provider      string    `json:"provider"`
	LoggedIn      bool      `json:"logged_in"`
	Folder        string    `json:"folder,omitempty"`
	LastSync      time.Time `json:"last_sync,omitzero"`
	LastAttempted time.Time `json:"last_attempted,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
	LastErrorType string    `json:"last_error_type,omitempty"`
	Ongoing       bool      `json:"ongoing"`
	Interval      string    `json:"interval,omitempty"`
}

func newSyncStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of folder sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := a.tracker()
			if err != nil {
				return err
			}
			folder, _ := tracker.Token()
			st := syncStatus{
				Provider:      tracker.Identifier(),
				LoggedIn:      tracker.IsLoggedIn(),
				Folder:        folder,
				LastSync:      tracker.LastSyncDate(),
				LastAttempted: tracker.LastAttemptedSyncDate(),
				LastError:     tracker.LastError(),
				LastErrorType: tracker.LastErrorType(),
				Ongoing:       tracker.IsOngoing(),
			}
			if d := tracker.SyncInterval(); d > 0 {
				st.Interval = d.String()
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), st)
			}

			w := a.out(cmd)
			if !st.LoggedIn {
				fmt.Fprintln(w, "Not logged in; run taskshelf login <folder>")
				return nil
			}
			fmt.Fprintf(w, "Folder:          %s\n", st.Folder)
			fmt.Fprintf(w, "Last sync:       %s\n", sinceOrNever(st.LastSync))
			if !st.LastAttempted.IsZero() {
				fmt.Fprintf(w, "Last attempt:    %s\n", sinceOrNever(st.LastAttempted))
			}
			if st.LastError != "" {
				fmt.Fprintf(w, "Last error:      %s (%s)\n", st.LastError, st.LastErrorType)
			}
			if st.Ongoing {
				fmt.Fprintln(w, "A sync is in progress")
			}
			if st.Interval != "" {
				fmt.Fprintf(w, "Interval:        %s\n", st.Interval)
			}
			return nil
		},
	}
}

func (a *app) runner() (*syncer.Runner, *syncstate.Tracker, error) {
	tracker, err := a.tracker()
	if err != nil {
		return nil, nil, err
	}
	tasks, err := a.tasks()
	if err != nil {
		return nil, nil, err
	}
	log := a.component("sync")
	provider := syncer.NewFolderProvider(tasks, tracker, log)
	return syncer.NewRunner(provider, tracker, log), tracker, nil
}
