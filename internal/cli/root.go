// Package cli defines the code-searcher command tree.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bethropolis/code-searcher/internal/config"
	"github.com/bethropolis/code-searcher/internal/logger"
)

const version = "1.0.0"

// NewRootCmd builds the command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "code-searcher",
		Short: "Search codebases for text or regex patterns",
		Long: "code-searcher recursively scans directories, filters out excluded and\n" +
			"binary files, and searches the rest for a literal or regex query,\n" +
			"reporting every match with a line-numbered context snippet.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Best effort; a missing .env file is the normal case.
			_ = godotenv.Load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error, none)")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	pf.BoolVar(&cfg.Quiet, "quiet", false, "suppress info messages")
	pf.BoolVar(&cfg.NoColor, "no-color", false, "disable color output")

	root.AddCommand(newSearchCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))
	return root
}

// Execute runs the CLI. The exit code is the caller's decision.
func Execute() error {
	return NewRootCmd().Execute()
}

func newLog(cfg *config.Config) *logger.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = logger.LevelDebug
	} else if cfg.Quiet && level < logger.LevelWarn {
		level = logger.LevelWarn
	}
	return logger.New(os.Stderr, level, cfg.UseColors)
}
