package cmd

import (
	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/spf13/cobra"
)

// tiersCmd prints the curated tier table or a single team's tiers.
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the attack and defence tier table.",
	Long: `Print the five-tier classification used to annotate schedules.

Attack tiers rate how hard a side is to score against; defence tiers rate
how dangerous a side is going forward. Unknown teams fall back to tier 3.

Examples:
  # Full table
  fdr tiers

  # One team
  fdr tiers --team "Man City"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTiers(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot print tiers", err)
		}
	},
}
