package cmd

import (
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/spf13/cobra"
)

// scheduleCmd shows each team's upcoming fixtures with opponent tiers.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show each team's upcoming fixtures with opponent tiers.",
	Long: `List every team's fixtures in a window, each annotated with the
opponent's curated attack and defence tiers, and rank teams by the average.

Tiers come from the built-in Premier League table unless the config file
defines a custom 'tiers' section.

Examples:
  # Easiest attacking runs over the next five gameweeks
  fdr schedule

  # Best clean-sheet runs over gameweeks 8-15
  fdr schedule --start 8 --horizon 8 --rank-by defence

  # One team's run
  fdr schedule --team arsenal`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchedules(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build schedules", err)
		}
	},
}
