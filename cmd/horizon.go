package cmd

import (
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/spf13/cobra"
)

// horizonCmd averages fixture difficulty over several gameweeks.
var horizonCmd = &cobra.Command{
	Use:   "horizon",
	Short: "Average fixture difficulty over the next few gameweeks.",
	Long: `Average each team's fixture difficulty over a window of gameweeks.

The window starts at --start and spans --horizon gameweeks (3, 5, 8 or 10).
It may not run past the last gameweek of the season. Double gameweeks count
every fixture; blank gameweeks simply contribute nothing.

Examples:
  # Next five gameweeks
  fdr horizon

  # Gameweeks 20-27 with two decimal places
  fdr horizon --start 20 --horizon 8 --precision 2

  # Track the lists in CSV
  fdr horizon -s 10 --output csv --output-file gw10-14.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHorizonFDR(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rate horizon", err)
		}
	},
}
