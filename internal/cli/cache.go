package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/code-searcher/internal/cache"
	"github.com/bethropolis/code-searcher/internal/config"
)

func newCacheCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk result cache",
	}
	cmd.PersistentFlags().StringVar(&cfg.CacheDir, "cache-dir", "", "cache directory (defaults to the user cache dir)")

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.CacheDir
			if dir == "" {
				var err error
				dir, err = cache.DefaultDir()
				if err != nil {
					return err
				}
			}
			store, err := cache.New(dir, 0)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached item(s) from %s.\n", n, dir)
			return nil
		},
	}
	cmd.AddCommand(clear)
	return cmd
}
