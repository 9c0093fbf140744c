// cmd/blogidx/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogidx/internal/scaffold"
	"blogidx/internal/server"
	"blogidx/internal/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Regenerate the catalog section once",
		Args:  cobra.NoArgs,
		RunE:  a.runSync,
	}
}

func (a *app) runSync(cmd *cobra.Command, args []string) error {
	res, err := syncer.Sync(syncer.OptionsFromConfig(a.site, a.logger))
	if err != nil {
		return err
	}
	if res.Changed {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s synced: %d posts in catalog.\n", a.site.Readme, res.Posts)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s already up to date: %d posts in catalog.\n", a.site.Readme, res.Posts)
	}
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Exit non-zero if the catalog section is out of date",
		Long: `check generates the catalog exactly like sync but never writes the README.
It fails when the README would change, which makes it usable in CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := syncer.OptionsFromConfig(a.site, a.logger)
			opts.Check = true
			res, err := syncer.Sync(opts)
			if errors.Is(err, syncer.ErrStale) {
				return fmt.Errorf("%w; run 'blogidx sync'", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is up to date: %d posts in catalog.\n", a.site.Readme, res.Posts)
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync, then resync whenever a post or the README changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.runSync(cmd, nil); err != nil {
				return fmt.Errorf("initial sync failed: %w", err)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			return a.watcher(debounce).Run(ctx, func() {
				if _, err := a.resync(); err != nil {
					a.logger.Error("resync failed", zap.Error(err))
				}
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", server.DefaultDebounce, "quiet period before resyncing")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var (
		port     int
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the README in a browser with live reload while watching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.runSync(cmd, nil); err != nil {
				return fmt.Errorf("initial sync failed: %w", err)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving preview on http://localhost:%d\n", port)
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			return server.Run(ctx, fmt.Sprintf(":%d", port), a.watcher(debounce), func() error {
				_, err := a.resync()
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 1313, "port for the preview server")
	cmd.Flags().DurationVar(&debounce, "debounce", server.DefaultDebounce, "quiet period before resyncing")
	return cmd
}

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <title>",
		Short: "Create a dated post in the blog directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scaffold.NewPost(a.site, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created:", path)
			return nil
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default blogidx.yaml and create the blog directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return scaffold.Init(dir)
		},
	}
}

func (a *app) watcher(debounce time.Duration) *server.Watcher {
	return &server.Watcher{
		BlogDir:    a.site.BlogDir,
		Readme:     a.site.Readme,
		Extensions: a.site.Extensions,
		Debounce:   debounce,
		Logger:     a.logger,
	}
}

func (a *app) resync() (syncer.Result, error) {
	res, err := syncer.Sync(syncer.OptionsFromConfig(a.site, a.logger))
	if err != nil {
		return res, err
	}
	if res.Changed {
		a.logger.Info("catalog resynced", zap.Int("posts", res.Posts))
	}
	return res, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
