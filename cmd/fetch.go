package cmd

import (
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fetchCmd refreshes the local dataset from the upstream API.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download teams, fixtures and player figures into the data directory.",
	Long: `Download the registry and fixture calendar from the fantasy API and
rewrite the normalized dataset in --data-dir.

Raw payloads are archived under <data-dir>/raw. Team statistics are rebuilt on
every fetch: figures in team_stats.supplied.json are used when present,
otherwise they are derived from player expected-goals figures. A hand-written
team_stats.json is copied to team_stats.supplied.json on the first fetch.
Responses are cached for --cache-ttl.

Examples:
  # Refresh the default data directory
  fdr fetch

  # Newly promoted sides get placeholder statistics
  fdr fetch --promoted Burnley,Leeds,Sunderland

  # Bypass the response cache
  fdr fetch --force`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFetch(rootCtx, cfg, cacheManager, viper.GetBool("force")); err != nil {
			contract.LogFatal("Cannot fetch dataset", err)
		}
	},
}
