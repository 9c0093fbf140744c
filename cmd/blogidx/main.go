// cmd/blogidx/main.go
package main

import (
	"fmt"
	"os"

	"blogidx/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	site   config.SiteConfig
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "blogidx",
		Short: "blogidx - keeps the blog catalog in your README in sync",
		Long: `blogidx scans the blog directory for dated posts (YYYY-MM-DD-<slug>.md),
groups them by year and month and rewrites the catalog section of the README
between the configured start and end markers.

Run without a command to sync once.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runSync,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultFile, "path to the config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.syncCmd(),
		a.checkCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.newCmd(),
		a.initCmd(),
	)
	return root
}

func (a *app) setup() error {
	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	site, err := config.LoadSiteConfig(a.configPath)
	if err != nil {
		return err
	}
	a.site = site
	a.logger.Debug("config loaded",
		zap.String("path", a.configPath),
		zap.String("blog_dir", site.BlogDir),
		zap.String("readme", site.Readme),
	)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !verbose
	return cfg.Build()
}
