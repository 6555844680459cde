package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bethropolis/code-searcher/internal/app"
	"github.com/bethropolis/code-searcher/internal/config"
)

func newSearchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query> [path...]",
		Short: "Search for a query under one or more paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Query = args[0]
			cfg.Paths = args[1:]
			if len(cfg.Paths) == 0 {
				cfg.Paths = []string{"."}
			}
			cfg.ResolveColors()
			color.NoColor = !cfg.UseColors
			log := newLog(cfg)

			out := io.Writer(os.Stdout)
			if cfg.OutputFile != "" {
				f, err := os.Create(cfg.OutputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return app.New(cfg, log, out).Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&cfg.Regex, "regex", "r", false, "treat the query as a regular expression")
	f.BoolVarP(&cfg.CaseSensitive, "case-sensitive", "c", false, "case-sensitive search (default is case-insensitive)")
	f.IntVarP(&cfg.ContextLines, "context", "C", cfg.ContextLines, "context lines around each match")
	f.StringVar(&cfg.ExcludeDirs, "exclude-dirs", "", "comma-separated directory names to exclude (replaces defaults)")
	f.StringVar(&cfg.ExcludeFiles, "exclude-files", "", "comma-separated file name globs to exclude (replaces defaults)")
	f.StringVar(&cfg.ExcludePatterns, "exclude", "", "comma-separated free-form exclusion globs (files or dirs)")
	f.BoolVar(&cfg.IncludeHidden, "include-hidden", false, "include hidden files and directories (starting with '.')")
	f.BoolVar(&cfg.RespectGitignore, "gitignore", false, "also apply .gitignore rules found under each root")
	f.Int64Var(&cfg.MaxFileSizeMB, "max-size", 0, "max file size to search in MB (0 = no limit)")
	f.StringVar(&cfg.PolicyFile, "policy", "", "YAML exclusion policy file")
	f.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format (console, json, markdown)")
	f.StringVarP(&cfg.OutputFile, "output", "o", "", "write results to a file instead of stdout")
	f.BoolVarP(&cfg.Elaborate, "elaborate", "e", false, "elaborate on each match with an AI model (needs ANTHROPIC_API_KEY)")
	f.StringVar(&cfg.Model, "model", "", "override the elaboration model")
	f.IntVar(&cfg.ContextWindow, "context-window", cfg.ContextWindow, "file context lines for elaboration")
	f.BoolVar(&cfg.CacheEnabled, "cache", false, "cache search results on disk")
	f.StringVar(&cfg.CacheDir, "cache-dir", "", "cache directory (defaults to the user cache dir)")
	f.DurationVar(&cfg.Timeout, "timeout", 0, "maximum execution time (e.g. 30s, 5m)")
	return cmd
}
