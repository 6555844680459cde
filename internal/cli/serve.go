package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bethropolis/code-searcher/internal/config"
	"github.com/bethropolis/code-searcher/internal/elaborate"
	"github.com/bethropolis/code-searcher/internal/mcpserver"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose search_codebase and elaborate_finding as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLog(cfg)

			var analyzer *elaborate.Analyzer
			if os.Getenv("ANTHROPIC_API_KEY") != "" {
				analyzer = elaborate.New("", elaborate.WithModel(cfg.Model), elaborate.WithLogger(log))
			} else {
				log.Warn("ANTHROPIC_API_KEY not set; elaborate_finding will be unavailable")
			}

			log.Info("code-searcher %s serving MCP over stdio", version)
			return mcpserver.New(version, analyzer, log).ServeStdio()
		},
	}
	cmd.Flags().StringVar(&cfg.Model, "model", "", "override the elaboration model")
	return cmd
}
